package storyserviceimpl

import (
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	New,
	func(s *Impl) storyservice.Client { return s },
	func(s *Impl) playback.StoryService { return s },
)
