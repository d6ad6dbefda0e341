//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"chat-relay/auth"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"context"
	"log/slog"
	"time"
)

// unauthorizedMessage is the single message of every authentication failure,
// whatever went wrong with the credential.
const unauthorizedMessage = "Unauthorized request"

type IAuthService interface {
	Authenticate(ctx context.Context, token string) (chat.Identity, error)
	IssueToken(userID chat.UserID) (string, error)
}

type AuthService struct {
	log            *slog.Logger
	userRepository IUserFinder
	secret         []byte
	tokenDuration  time.Duration
}

// IUserFinder is the Session Store lookup.
type IUserFinder interface {
	FindIdentity(id chat.UserID) (chat.Identity, error)
}

func NewAuthService(log *slog.Logger, repo IUserFinder, secret []byte, tokenDuration time.Duration) *AuthService {
	return &AuthService{log: log, userRepository: repo, secret: secret, tokenDuration: tokenDuration}
}

// Authenticate verifies a signed token and resolves its subject to a live identity.
// A missing, malformed, expired or revoked credential yields the same Unauthorized error.
func (s *AuthService) Authenticate(_ context.Context, token string) (chat.Identity, error) {
	if token == "" {
		return chat.Identity{}, errors.Unauthorized(unauthorizedMessage)
	}
	subject, err := auth.ValidateToken(s.secret, token)
	if err != nil {
		s.log.Debug("Token rejected", "error", err)
		return chat.Identity{}, errors.Unauthorized(unauthorizedMessage)
	}
	identity, err := s.userRepository.FindIdentity(chat.UserID(subject))
	if err == errors.ErrRecordNotFound {
		s.log.Debug("Token subject has no identity", "user_id", subject)
		return chat.Identity{}, errors.Unauthorized(unauthorizedMessage)
	}
	if err != nil {
		return chat.Identity{}, errors.Upstream("Session store unavailable", err)
	}
	return identity, nil
}

// IssueToken signs a token for userID, used by tooling standing in for login.
func (s *AuthService) IssueToken(userID chat.UserID) (string, error) {
	token, err := auth.GenerateToken(s.secret, string(userID), s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return token, nil
}
