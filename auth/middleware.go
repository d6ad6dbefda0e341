package auth

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"context"
	"net/http"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Authenticator resolves a bearer credential to a live identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (chat.Identity, error)
}

// ErrorWriter renders an error on the request/response channel.
type ErrorWriter func(w http.ResponseWriter, err error)

// Middleware validates the bearer credential of each request and injects
// the resolved identity into the request context.
func Middleware(authenticator Authenticator, cookieName string, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := CredentialFromRequest(r, cookieName)
			if token == "" {
				writeError(w, errors.Unauthorized("Unauthorized request"))
				return
			}
			identity, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity chat.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func IdentityFromContext(ctx context.Context) (chat.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(chat.Identity)
	return identity, ok
}
