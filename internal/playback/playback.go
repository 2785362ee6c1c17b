// Package playback drives a viewer through a fixed list of stories: timed
// auto-advance, manual navigation, pause and resume, and the like, view, reply
// and delete side effects that go out to the story service.
//
// A Session is safe for concurrent use. Service calls complete on background
// goroutines, so Listener implementations must be safe for concurrent use too.
package playback

import (
	"errors"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
)

type State int

const (
	StatePlaying State = iota
	StatePaused
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type CloseReason int

const (
	CloseReasonNone CloseReason = iota
	CloseReasonRequested
	CloseReasonFinished
	CloseReasonDeleted
)

func (r CloseReason) String() string {
	switch r {
	case CloseReasonRequested:
		return "requested"
	case CloseReasonFinished:
		return "finished"
	case CloseReasonDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// Action names an operation that needs a signed-in viewer.
type Action string

const (
	ActionLike   Action = "like"
	ActionReply  Action = "reply"
	ActionDelete Action = "delete"
)

var (
	ErrInvalidIndex = apperrors.WrapWithCode(apperrors.ErrBadRequest, apperrors.CodeInvalidIndex, "story index out of bounds")
	ErrUnauthorized = apperrors.WrapWithCode(apperrors.ErrUnauthorized, apperrors.CodeUnauthorized, "only the owner can delete a story")
	ErrClosed       = errors.New("playback session is closed")
	ErrNoReplies    = errors.New("replies are not configured")
	ErrRunning      = errors.New("playback session is already running")
)

type EventType int

const (
	EventStoryChanged EventType = iota
	EventPaused
	EventResumed
	EventLikeChanged
	EventReplyStarted
	EventReplyFinished
	EventLoginRequired
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventStoryChanged:
		return "story_changed"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventLikeChanged:
		return "like_changed"
	case EventReplyStarted:
		return "reply_started"
	case EventReplyFinished:
		return "reply_finished"
	case EventLoginRequired:
		return "login_required"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	SessionID string
	State     State
	Reason    CloseReason
	Index     int
	Total     int
	Story     domain.Story
	Fraction  float64
	Drafting  bool
	Draft     string
}

// Progress returns the fill of every story's progress segment in [0,100]:
// stories before the current one are full, later ones are empty.
func (s Snapshot) Progress() []float64 {
	out := make([]float64, s.Total)
	for i := range out {
		switch {
		case i < s.Index:
			out[i] = 100
		case i == s.Index:
			out[i] = s.Fraction * 100
		}
	}
	return out
}

type Event struct {
	Type     EventType
	Snapshot Snapshot
	// Action is set for EventLoginRequired.
	Action Action
}

type Listener interface {
	HandleEvent(e Event)
}

type ListenerFunc func(e Event)

func (f ListenerFunc) HandleEvent(e Event) { f(e) }
