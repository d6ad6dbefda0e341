package services

import (
	"chat-relay/auth"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testSecret = []byte("test-secret")

func TestAuthService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mockRepo := mocks.NewMockIUserFinder(ctrl)
	svc := NewAuthService(log, mockRepo, testSecret, time.Hour)
	ctx := context.Background()

	t.Run("should resolve the identity of a valid token", func(t *testing.T) {
		req := require.New(t)
		identity := chat.Identity{ID: "u1", Username: "alice"}
		token, err := svc.IssueToken(identity.ID)
		req.NoError(err)

		mockRepo.EXPECT().FindIdentity(identity.ID).Return(identity, nil).Times(1)

		found, err := svc.Authenticate(ctx, token)

		req.NoError(err)
		req.Equal(identity, found)
	})

	t.Run("should reject every bad credential with the same message", func(t *testing.T) {
		req := require.New(t)
		expired, err := auth.GenerateToken(testSecret, "u1", -time.Minute)
		req.NoError(err)
		forged, err := auth.GenerateToken([]byte("other"), "u1", time.Hour)
		req.NoError(err)

		for _, token := range []string{"", "garbage", expired, forged} {
			// Repository should NEVER be called
			_, err := svc.Authenticate(ctx, token)
			req.True(errors.Is(err, errors.KindUnauthorized))
			req.Equal(unauthorizedMessage, errors.MessageOf(err))
		}
	})

	t.Run("should reject a revoked identity", func(t *testing.T) {
		req := require.New(t)
		token, err := svc.IssueToken("gone")
		req.NoError(err)

		mockRepo.EXPECT().FindIdentity(chat.UserID("gone")).Return(chat.Identity{}, errors.ErrRecordNotFound).Times(1)

		_, err = svc.Authenticate(ctx, token)

		req.True(errors.Is(err, errors.KindUnauthorized))
		req.Equal(unauthorizedMessage, errors.MessageOf(err))
	})

	t.Run("should report a store failure as upstream", func(t *testing.T) {
		req := require.New(t)
		token, err := svc.IssueToken("u1")
		req.NoError(err)

		mockRepo.EXPECT().FindIdentity(chat.UserID("u1")).Return(chat.Identity{}, fmt.Errorf("disk full")).Times(1)

		_, err = svc.Authenticate(ctx, token)

		req.True(errors.Is(err, errors.KindUpstreamFailure))
	})
}
