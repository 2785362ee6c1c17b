package feedimpl

import (
	"github.com/orgball2608/story-viewer-bot/internal/feed"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	New,
	func(f *Impl) feed.Client { return f },
	func(f *Impl) playback.FeedNotifier { return f },
)
