package authimpl

import (
	"github.com/orgball2608/story-viewer-bot/internal/auth"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	fx.Annotate(
		New,
		fx.As(new(auth.Client)),
	),
)
