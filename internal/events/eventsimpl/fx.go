package eventsimpl

import (
	"github.com/orgball2608/story-viewer-bot/internal/events"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	New,
	func(b *Bus) events.Publisher { return b },
	func(b *Bus) events.Subscriber { return b },
)
