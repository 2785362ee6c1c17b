package commandimpl

import (
	"github.com/orgball2608/story-viewer-bot/internal/auth"
	"github.com/orgball2608/story-viewer-bot/internal/command"
	"github.com/orgball2608/story-viewer-bot/internal/feed"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/orgball2608/story-viewer-bot/internal/viewer"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram telegram.Client
	Auth     auth.Client
	Feed     feed.Client
	Stories  storyservice.Client
	Viewers  *viewer.Registry
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Auth     auth.Client
	Feed     feed.Client
	Stories  storyservice.Client
	Viewers  *viewer.Registry
	Logger   logger.Logger
	Config   *config.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		Auth:     opts.Auth,
		Feed:     opts.Feed,
		Stories:  opts.Stories,
		Viewers:  opts.Viewers,
		Logger:   opts.Logger.WithComponent("Commands"),
		Config:   opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)

var Module = fx.Provide(
	fx.Annotate(
		New,
		fx.As(new(command.Client)),
	),
)

// reply sends a best-effort notice on a path that already returns an error.
func (c *CommandImpl) reply(chatID int64, text string) {
	if _, err := c.Telegram.SendMessage(chatID, text); err != nil {
		c.Logger.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}
