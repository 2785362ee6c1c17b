package feed

import (
	"context"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=feed.go -destination=mocks/mock.go

type Client interface {
	// Stories returns the active stories as seen by viewer, newest first.
	Stories(ctx context.Context, viewer domain.Viewer) ([]domain.Story, error)

	// RequestRefresh marks every cached list stale. It never blocks.
	RequestRefresh()

	// Refresh drops stale lists and reloads the anonymous one.
	Refresh(ctx context.Context) error
	ScheduleRefresh(ctx context.Context) error
	WatchEvents(ctx context.Context) error
}
