package domain

import "time"

type StoryKind string

const (
	StoryKindEphemeral  StoryKind = "ephemeral"
	StoryKindLiveOrigin StoryKind = "live_origin"
)

// Story is a single-image ephemeral post.
type Story struct {
	ID               string
	OwnerID          string
	OwnerDisplayName string
	MediaURL         string
	Kind             StoryKind
	CreatedAt        time.Time
	ExpiresAt        time.Time // informational, the viewer does not enforce it
	ViewCount        int
	LikeCount        int
	ViewerHasLiked   bool
	ViewerHasViewed  bool
}

func (s Story) IsLive() bool {
	return s.Kind == StoryKindLiveOrigin
}

func (s Story) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func ParseStoryKind(v string) StoryKind {
	if StoryKind(v) == StoryKindLiveOrigin {
		return StoryKindLiveOrigin
	}
	return StoryKindEphemeral
}
