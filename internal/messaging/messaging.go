// Package messaging delivers story replies to the story owner's chat.
package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/internal/ratelimit"
	accountRepo "github.com/orgball2608/story-viewer-bot/internal/repositories/account"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"go.uber.org/fx"
)

const maxReplyLength = 1000

var (
	ErrRateLimited      = apperrors.Wrap(apperrors.ErrServiceUnavailable, "too many replies, slow down")
	ErrOwnerUnavailable = apperrors.Wrap(apperrors.ErrNotFound, "story owner is no longer reachable")
	ErrTooLong          = apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("reply is longer than %d characters", maxReplyLength))
)

type Opts struct {
	fx.In

	Telegram    telegram.Client
	AccountRepo accountRepo.Repository
	Config      *config.Config
	Logger      logger.Logger
	Limiter     ratelimit.Limiter `optional:"true"`
}

type ReplySender struct {
	telegram    telegram.Client
	accountRepo accountRepo.Repository
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

func New(opts Opts) *ReplySender {
	limiter := opts.Limiter
	if limiter == nil {
		r := opts.Config.Reply
		limiter = ratelimit.NewInMemoryLimiter(r.Requests, r.Per, r.Burst)
	}
	return &ReplySender{
		telegram:    opts.Telegram,
		accountRepo: opts.AccountRepo,
		limiter:     limiter,
		logger:      opts.Logger.WithComponent("Replies"),
	}
}

var _ playback.ReplySender = (*ReplySender)(nil)

func (s *ReplySender) SendReply(ctx context.Context, story domain.Story, from domain.Viewer, text string) error {
	if len([]rune(text)) > maxReplyLength {
		return ErrTooLong
	}
	if !s.limiter.Allow(from.ChatID) {
		return ErrRateLimited
	}

	owner, err := s.accountRepo.GetByID(ctx, story.OwnerID)
	if err != nil {
		if errors.Is(err, accountRepo.ErrNotFound) {
			return ErrOwnerUnavailable
		}
		return apperrors.Wrap(err, "look up story owner")
	}

	msg := fmt.Sprintf("💬 @%s replied to your story:\n\n%s", from.Username, text)
	if _, err := s.telegram.SendMessage(owner.ChatID, msg); err != nil {
		return apperrors.Wrap(err, "deliver reply")
	}

	s.logger.Info("Story reply delivered", "story_id", story.ID, "from", from.Username)
	return nil
}

var Module = fx.Provide(
	New,
	func(s *ReplySender) playback.ReplySender { return s },
)
