package playback

import (
	"context"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=collaborators.go -destination=mocks/mock.go

// StoryService is the network boundary for story side effects.
type StoryService interface {
	RecordView(ctx context.Context, storyID, viewerID string) error
	SetLike(ctx context.Context, storyID, viewerID string, liked bool) error
	DeleteStory(ctx context.Context, storyID, viewerID string) error
}

// ReplySender delivers a viewer's reply to the story owner.
type ReplySender interface {
	SendReply(ctx context.Context, story domain.Story, from domain.Viewer, text string) error
}

// Auth supplies the current viewer, domain.Anonymous when nobody is signed in.
type Auth interface {
	Viewer() domain.Viewer
}

// FeedNotifier is told to reload its story list after a story is deleted.
type FeedNotifier interface {
	RequestRefresh()
}

// Dispatcher runs fire-and-forget tasks. Dispatch must not run task on the
// calling goroutine.
type Dispatcher interface {
	Dispatch(task func()) error
}
