package messaging_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/messaging"
	"github.com/orgball2608/story-viewer-bot/internal/ratelimit"
	accountRepo "github.com/orgball2608/story-viewer-bot/internal/repositories/account"
	mock_account "github.com/orgball2608/story-viewer-bot/internal/repositories/account/mocks"
	mock_telegram "github.com/orgball2608/story-viewer-bot/internal/telegram/mocks"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	story = domain.Story{ID: "s1", OwnerID: "acc-owner"}
	from  = domain.Viewer{ID: "acc-neo", Username: "neo", ChatID: 10}
	owner = &domain.Account{ID: "acc-owner", ChatID: 99, Username: "trinity"}
)

func newSender(t *testing.T, burst int) (*messaging.ReplySender, *mock_telegram.MockClient, *mock_account.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	tg := mock_telegram.NewMockClient(ctrl)
	repo := mock_account.NewMockRepository(ctrl)
	s := messaging.New(messaging.Opts{
		Telegram:    tg,
		AccountRepo: repo,
		Config:      &config.Config{},
		Logger:      logger.Nop(),
		Limiter:     ratelimit.NewInMemoryLimiter(1, time.Hour, burst),
	})
	return s, tg, repo
}

func TestSendReply(t *testing.T) {
	t.Run("delivers to the owner chat", func(t *testing.T) {
		s, tg, repo := newSender(t, 3)
		repo.EXPECT().GetByID(gomock.Any(), "acc-owner").Return(owner, nil)
		tg.EXPECT().SendMessage(int64(99), gomock.Any()).
			DoAndReturn(func(_ int64, text string) (int, error) {
				assert.Contains(t, text, "@neo")
				assert.True(t, strings.HasSuffix(text, "love this"))
				return 1, nil
			})

		require.NoError(t, s.SendReply(context.Background(), story, from, "love this"))
	})

	t.Run("rate limited", func(t *testing.T) {
		s, tg, repo := newSender(t, 1)
		repo.EXPECT().GetByID(gomock.Any(), "acc-owner").Return(owner, nil)
		tg.EXPECT().SendMessage(int64(99), gomock.Any()).Return(1, nil)

		require.NoError(t, s.SendReply(context.Background(), story, from, "one"))
		assert.ErrorIs(t, s.SendReply(context.Background(), story, from, "two"), messaging.ErrRateLimited)
	})

	t.Run("owner gone", func(t *testing.T) {
		s, _, repo := newSender(t, 3)
		repo.EXPECT().GetByID(gomock.Any(), "acc-owner").Return(nil, accountRepo.ErrNotFound)

		assert.ErrorIs(t, s.SendReply(context.Background(), story, from, "hi"), messaging.ErrOwnerUnavailable)
	})

	t.Run("delivery failure", func(t *testing.T) {
		s, tg, repo := newSender(t, 3)
		repo.EXPECT().GetByID(gomock.Any(), "acc-owner").Return(owner, nil)
		tg.EXPECT().SendMessage(int64(99), gomock.Any()).Return(0, errors.New("bot was blocked by the user"))

		assert.Error(t, s.SendReply(context.Background(), story, from, "hi"))
	})

	t.Run("too long", func(t *testing.T) {
		s, _, _ := newSender(t, 3)
		assert.ErrorIs(t, s.SendReply(context.Background(), story, from, strings.Repeat("a", 1001)), messaging.ErrTooLong)
	})
}
