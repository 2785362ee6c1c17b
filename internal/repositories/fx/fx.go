package fx

import (
	"github.com/orgball2608/story-viewer-bot/internal/repositories/account"
	"github.com/orgball2608/story-viewer-bot/internal/repositories/story"
	"go.uber.org/fx"
)

var Module = fx.Options(
	story.Module,
	account.Module,
)
