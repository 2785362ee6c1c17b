package playback

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
)

// Session is one story viewing interaction, from Open to Close.
type Session struct {
	id       string
	ctrl     *Controller
	auth     Auth
	listener Listener
	logger   logger.Logger

	mu        sync.Mutex
	stories   []domain.Story
	positions map[string]int
	index     int
	elapsed   time.Duration
	state     State
	reason    CloseReason
	lastTick  time.Time
	viewed    map[string]struct{}
	likes     map[string]*likeQueue

	drafting         bool
	draft            string
	resumeAfterReply bool

	done    chan struct{}
	running atomic.Bool
	pending sync.WaitGroup
}

type task struct {
	run    func()
	reject func(err error)
}

// effects collects what a transition produced while the lock was held.
type effects struct {
	events []Event
	tasks  []task
}

func (fx *effects) event(s *Session, t EventType) {
	fx.events = append(fx.events, Event{Type: t, Snapshot: s.snapshotLocked()})
}

func (fx *effects) loginRequired(s *Session, a Action) {
	fx.events = append(fx.events, Event{Type: EventLoginRequired, Snapshot: s.snapshotLocked(), Action: a})
}

func (s *Session) do(fn func(fx *effects)) {
	var fx effects
	s.mu.Lock()
	fn(&fx)
	s.mu.Unlock()
	s.flush(&fx)
}

// flush delivers events before starting tasks. Events from a rejected task
// must follow the transition that queued it.
func (s *Session) flush(fx *effects) {
	if s.listener != nil {
		for _, e := range fx.events {
			s.listener.HandleEvent(e)
		}
	}
	for _, t := range fx.tasks {
		s.dispatch(t)
	}
}

func (s *Session) dispatch(t task) {
	s.pending.Add(1)
	err := s.ctrl.dispatcher.Dispatch(func() {
		defer s.pending.Done()
		t.run()
	})
	if err != nil {
		s.pending.Done()
		if t.reject != nil {
			t.reject(err)
		}
	}
}

func (s *Session) ID() string {
	return s.id
}

// Done is closed when the session reaches StateClosed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until every background service call started by the session has
// settled.
func (s *Session) Wait() {
	s.pending.Wait()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID: s.id,
		State:     s.state,
		Reason:    s.reason,
		Index:     s.index,
		Total:     len(s.stories),
		Story:     s.stories[s.index],
		Fraction:  s.fractionLocked(),
		Drafting:  s.drafting,
		Draft:     s.draft,
	}
}

func (s *Session) fractionLocked() float64 {
	f := float64(s.elapsed) / float64(s.ctrl.config.StoryDuration)
	if f > 1 {
		return 1
	}
	return f
}

// Progress is Snapshot().Progress().
func (s *Session) Progress() []float64 {
	return s.Snapshot().Progress()
}

// Tick advances the current story by delta. It does nothing unless the session
// is playing. Live stories hold until the viewer navigates away.
func (s *Session) Tick(delta time.Duration) {
	s.do(func(fx *effects) {
		s.tickLocked(delta, fx)
	})
}

func (s *Session) tickAt(now time.Time) {
	s.do(func(fx *effects) {
		delta := now.Sub(s.lastTick)
		s.lastTick = now
		s.tickLocked(delta, fx)
	})
}

func (s *Session) tickLocked(delta time.Duration, fx *effects) {
	if s.state != StatePlaying || delta <= 0 {
		return
	}
	if s.stories[s.index].IsLive() {
		return
	}

	s.elapsed += delta
	if s.elapsed >= s.ctrl.config.StoryDuration {
		s.advanceLocked(fx)
	}
}

func (s *Session) Pause() {
	s.do(func(fx *effects) {
		if s.state != StatePlaying {
			return
		}
		s.state = StatePaused
		fx.event(s, EventPaused)
	})
}

func (s *Session) Resume() {
	s.do(func(fx *effects) {
		s.resumeLocked(fx)
	})
}

func (s *Session) resumeLocked(fx *effects) {
	if s.state != StatePaused {
		return
	}
	s.state = StatePlaying
	s.lastTick = s.ctrl.clock.Now()
	fx.event(s, EventResumed)
}

// Next moves to the following story, or closes the session after the last one.
func (s *Session) Next() {
	s.do(func(fx *effects) {
		if s.state == StateClosed {
			return
		}
		s.advanceLocked(fx)
	})
}

// Previous moves to the preceding story. It does nothing on the first story.
func (s *Session) Previous() {
	s.do(func(fx *effects) {
		if s.state == StateClosed || s.index == 0 {
			return
		}
		s.moveLocked(s.index-1, fx)
	})
}

func (s *Session) Close() {
	s.do(func(fx *effects) {
		s.closeLocked(CloseReasonRequested, fx)
	})
}

func (s *Session) advanceLocked(fx *effects) {
	if s.index+1 < len(s.stories) {
		s.moveLocked(s.index+1, fx)
		return
	}
	s.closeLocked(CloseReasonFinished, fx)
}

// moveLocked is the only place the index changes. Progress restarts from zero
// and the tick baseline moves to now, so a tick sampled before the move never
// counts toward the new story.
func (s *Session) moveLocked(i int, fx *effects) {
	s.index = i
	s.elapsed = 0
	s.state = StatePlaying
	s.lastTick = s.ctrl.clock.Now()
	s.drafting = false
	s.draft = ""
	s.resumeAfterReply = false
	fx.event(s, EventStoryChanged)
	s.recordViewLocked(fx)
}

func (s *Session) closeLocked(reason CloseReason, fx *effects) {
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.reason = reason
	s.drafting = false
	s.draft = ""
	close(s.done)
	fx.event(s, EventClosed)
	s.logger.Debug("Playback session closed", "reason", reason.String(), "index", s.index)
}

// RecordView reports the current story as viewed. It fires at most once per
// story for the lifetime of the session and is called on every display.
func (s *Session) RecordView() {
	s.do(func(fx *effects) {
		if s.state == StateClosed {
			return
		}
		s.recordViewLocked(fx)
	})
}

func (s *Session) recordViewLocked(fx *effects) {
	viewer := s.auth.Viewer()
	if viewer.IsAnonymous() {
		return
	}

	story := s.stories[s.index]
	if _, ok := s.viewed[story.ID]; ok {
		return
	}
	s.viewed[story.ID] = struct{}{}

	fx.tasks = append(fx.tasks, task{
		run: func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.ctrl.config.CallTimeout)
			defer cancel()

			if err := s.ctrl.stories.RecordView(ctx, story.ID, viewer.ID); err != nil {
				err = apperrors.WrapWithCode(err, apperrors.CodeViewRecordFailed, "record view")
				s.logger.Debug("Story view not recorded", "story_id", story.ID, "error", err)
			}
		},
		reject: func(err error) {
			s.logger.Debug("Story view dropped", "story_id", story.ID, "error", err)
		},
	})
}

// StartReply opens a reply draft for the current story and pauses playback
// until the reply is sent or cancelled.
func (s *Session) StartReply() {
	s.do(func(fx *effects) {
		if s.state == StateClosed || s.drafting {
			return
		}
		if s.auth.Viewer().IsAnonymous() {
			fx.loginRequired(s, ActionReply)
			return
		}

		s.drafting = true
		s.draft = ""
		if s.state == StatePlaying {
			s.state = StatePaused
			s.resumeAfterReply = true
		}
		fx.event(s, EventReplyStarted)
	})
}

// SetDraft stores the text typed so far. It is never sent anywhere.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drafting {
		s.draft = text
	}
}

func (s *Session) CancelReply() {
	s.do(func(fx *effects) {
		s.finishReplyLocked(fx)
	})
}

// SendReply sends text to the owner of the current story. Blank text cancels the
// draft. On failure the draft stays open.
func (s *Session) SendReply(ctx context.Context, text string) error {
	var fx effects
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	viewer := s.auth.Viewer()
	if viewer.IsAnonymous() {
		fx.loginRequired(s, ActionReply)
		s.mu.Unlock()
		s.flush(&fx)
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.finishReplyLocked(&fx)
		s.mu.Unlock()
		s.flush(&fx)
		return nil
	}
	story := s.stories[s.index]
	s.mu.Unlock()

	if s.ctrl.replies == nil {
		return ErrNoReplies
	}
	if err := s.ctrl.replies.SendReply(ctx, story, viewer, text); err != nil {
		return err
	}

	s.do(func(fx *effects) {
		s.finishReplyLocked(fx)
	})
	return nil
}

func (s *Session) finishReplyLocked(fx *effects) {
	if !s.drafting {
		return
	}
	s.drafting = false
	s.draft = ""
	fx.event(s, EventReplyFinished)
	if s.resumeAfterReply {
		s.resumeAfterReply = false
		s.resumeLocked(fx)
	}
}

// DeleteStory deletes the current story. Only its owner may do so; anyone else
// gets ErrUnauthorized and nothing changes. On success the session closes and
// the feed is asked to refresh.
func (s *Session) DeleteStory(ctx context.Context) error {
	var fx effects
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	viewer := s.auth.Viewer()
	if viewer.IsAnonymous() {
		fx.loginRequired(s, ActionDelete)
		s.mu.Unlock()
		s.flush(&fx)
		return nil
	}
	story := s.stories[s.index]
	s.mu.Unlock()

	if story.OwnerID != viewer.ID {
		return ErrUnauthorized
	}

	if err := s.ctrl.stories.DeleteStory(ctx, story.ID, viewer.ID); err != nil {
		return apperrors.Wrap(err, "delete story "+story.ID)
	}

	s.do(func(fx *effects) {
		s.closeLocked(CloseReasonDeleted, fx)
	})
	if s.ctrl.feed != nil {
		s.ctrl.feed.RequestRefresh()
	}
	s.logger.Info("Story deleted by owner", "story_id", story.ID)
	return nil
}
