package telegramimpl

import (
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	fx.Annotate(
		New,
		fx.As(new(telegram.Client)),
	),
)
