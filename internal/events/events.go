package events

import (
	"context"
	"time"
)

// Kind is the last segment of an event subject, <prefix>.<kind>.
type Kind string

const (
	KindCreated Kind = "created"
	KindViewed  Kind = "viewed"
	KindLiked   Kind = "liked"
	KindDeleted Kind = "deleted"
)

// StoryEvent is the payload of every story event.
type StoryEvent struct {
	StoryID  string    `json:"story_id"`
	OwnerID  string    `json:"owner_id,omitempty"`
	ViewerID string    `json:"viewer_id,omitempty"`
	Liked    bool      `json:"liked,omitempty"`
	Count    int       `json:"count,omitempty"`
	At       time.Time `json:"at"`
}

type Handler func(ctx context.Context, e StoryEvent)

//go:generate go run go.uber.org/mock/mockgen -source=events.go -destination=mocks/mock.go

type Publisher interface {
	Publish(ctx context.Context, kind Kind, e StoryEvent) error
}

type Subscriber interface {
	// Subscribe calls h for every event of kind until the returned stop
	// function is called.
	Subscribe(kind Kind, h Handler) (stop func() error, err error)
}
