package authimpl

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/story-viewer-bot/internal/auth"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	accountRepo "github.com/orgball2608/story-viewer-bot/internal/repositories/account"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"go.uber.org/fx"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

type Opts struct {
	fx.In

	AccountRepo accountRepo.Repository
	Logger      logger.Logger
}

// Impl keeps the last known viewer of every chat it has seen, so playback
// sessions can ask for the viewer without a database round trip.
type Impl struct {
	accountRepo accountRepo.Repository
	logger      logger.Logger

	mu      sync.RWMutex
	viewers map[int64]domain.Viewer
}

func New(opts Opts) *Impl {
	return &Impl{
		accountRepo: opts.AccountRepo,
		logger:      opts.Logger.WithComponent("Auth"),
		viewers:     make(map[int64]domain.Viewer),
	}
}

var _ auth.Client = (*Impl)(nil)

func (a *Impl) Register(ctx context.Context, chatID int64, username string) (*domain.Account, error) {
	username = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
	if !usernamePattern.MatchString(username) {
		return nil, auth.ErrInvalidUsername
	}

	if existing, err := a.accountRepo.GetByChatID(ctx, chatID); err == nil {
		a.remember(chatID, existing.Viewer())
		return existing, auth.ErrAlreadyRegistered
	} else if !errors.Is(err, accountRepo.ErrNotFound) {
		return nil, apperrors.Wrap(err, "look up account")
	}

	acc := domain.Account{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := a.accountRepo.Create(ctx, acc); err != nil {
		if errors.Is(err, accountRepo.ErrAlreadyExists) {
			return nil, auth.ErrUsernameTaken
		}
		return nil, apperrors.Wrap(err, "create account")
	}

	a.remember(chatID, acc.Viewer())
	a.logger.Info("Account registered", "chat_id", chatID, "username", username)
	return &acc, nil
}

func (a *Impl) Logout(ctx context.Context, chatID int64) error {
	err := a.accountRepo.DeleteByChatID(ctx, chatID)
	if err != nil && !errors.Is(err, accountRepo.ErrNotFound) {
		return apperrors.Wrap(err, "delete account")
	}

	a.remember(chatID, domain.Anonymous)
	if err != nil {
		return auth.ErrNotRegistered
	}
	a.logger.Info("Account removed", "chat_id", chatID)
	return nil
}

func (a *Impl) Resolve(ctx context.Context, chatID int64) (domain.Viewer, error) {
	if v, ok := a.cached(chatID); ok {
		return v, nil
	}

	acc, err := a.accountRepo.GetByChatID(ctx, chatID)
	switch {
	case err == nil:
		v := acc.Viewer()
		a.remember(chatID, v)
		return v, nil
	case errors.Is(err, accountRepo.ErrNotFound):
		a.remember(chatID, domain.Anonymous)
		return domain.Anonymous, nil
	default:
		return domain.Anonymous, apperrors.Wrap(err, "resolve viewer")
	}
}

func (a *Impl) ContextFor(chatID int64) playback.Auth {
	return chatAuth{impl: a, chatID: chatID}
}

func (a *Impl) cached(chatID int64) (domain.Viewer, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.viewers[chatID]
	return v, ok
}

func (a *Impl) remember(chatID int64, v domain.Viewer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.viewers[chatID] = v
}

type chatAuth struct {
	impl   *Impl
	chatID int64
}

func (c chatAuth) Viewer() domain.Viewer {
	v, _ := c.impl.cached(c.chatID)
	return v
}
