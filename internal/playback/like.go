package playback

import (
	"context"
	"fmt"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
)

// likeOp is one toggle waiting for, or holding, the story's single in-flight
// SetLike call. prev* is the local state right before the toggle was applied.
type likeOp struct {
	storyID   string
	viewerID  string
	liked     bool
	prevLiked bool
	prevCount int
}

// likeQueue serialises toggles of one story. pending[0] is in flight while
// inFlight is set.
type likeQueue struct {
	pending  []likeOp
	inFlight bool
}

// ToggleLike flips the viewer's like on the current story right away and syncs
// it in the background. Toggles made while a call is in flight are applied to
// the optimistic state and sent one after another. If a call fails, the story
// goes back to how it was right before that toggle. The toggles queued behind
// it collapse into the state the viewer last chose, which is sent as a single
// call when it differs from the reverted state.
func (s *Session) ToggleLike() {
	s.do(func(fx *effects) {
		if s.state == StateClosed {
			return
		}
		viewer := s.auth.Viewer()
		if viewer.IsAnonymous() {
			fx.loginRequired(s, ActionLike)
			return
		}

		st := &s.stories[s.index]
		op := likeOp{
			storyID:   st.ID,
			viewerID:  viewer.ID,
			liked:     !st.ViewerHasLiked,
			prevLiked: st.ViewerHasLiked,
			prevCount: st.LikeCount,
		}
		applyLike(st, op.liked)

		q, ok := s.likes[st.ID]
		if !ok {
			q = &likeQueue{}
			s.likes[st.ID] = q
		}
		q.pending = append(q.pending, op)
		fx.event(s, EventLikeChanged)

		if q.inFlight {
			return
		}
		q.inFlight = true
		storyID := st.ID
		fx.tasks = append(fx.tasks, task{
			run: func() { s.drainLikes(storyID) },
			reject: func(err error) {
				s.abortLikes(storyID, err)
			},
		})
	})
}

func applyLike(st *domain.Story, liked bool) {
	st.ViewerHasLiked = liked
	if liked {
		st.LikeCount++
	} else if st.LikeCount > 0 {
		st.LikeCount--
	}
}

func (s *Session) drainLikes(storyID string) {
	for {
		s.mu.Lock()
		q := s.likes[storyID]
		if len(q.pending) == 0 {
			q.inFlight = false
			s.mu.Unlock()
			return
		}
		op := q.pending[0]
		s.mu.Unlock()

		err := s.sendLike(op)

		var fx effects
		s.mu.Lock()
		if err != nil {
			s.revertLikesLocked(q, err, true, &fx)
		} else {
			q.pending = q.pending[1:]
		}
		s.mu.Unlock()
		s.flush(&fx)
	}
}

// sendLike turns a panicking client into an error so the queue is released.
func (s *Session) sendLike(op likeOp) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("set like panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.ctrl.config.CallTimeout)
	defer cancel()
	return s.ctrl.stories.SetLike(ctx, op.storyID, op.viewerID, op.liked)
}

func (s *Session) abortLikes(storyID string, err error) {
	var fx effects
	s.mu.Lock()
	q := s.likes[storyID]
	s.revertLikesLocked(q, err, false, &fx)
	q.inFlight = false
	s.mu.Unlock()
	s.flush(&fx)
}

// revertLikesLocked restores the state before the failed call. With replay
// set, the last queued toggle is reapplied on top of it and left pending.
func (s *Session) revertLikesLocked(q *likeQueue, cause error, replay bool, fx *effects) {
	if len(q.pending) == 0 {
		return
	}
	op := q.pending[0]
	last := q.pending[len(q.pending)-1]
	queued := len(q.pending) - 1
	q.pending = nil

	i, ok := s.positions[op.storyID]
	if !ok {
		return
	}
	st := &s.stories[i]
	st.ViewerHasLiked = op.prevLiked
	st.LikeCount = op.prevCount

	replayed := replay && queued > 0 && last.liked != op.prevLiked
	if replayed {
		applyLike(st, last.liked)
		q.pending = []likeOp{{
			storyID:   op.storyID,
			viewerID:  last.viewerID,
			liked:     last.liked,
			prevLiked: op.prevLiked,
			prevCount: op.prevCount,
		}}
	}

	err := apperrors.WrapWithCode(cause, apperrors.CodeLikeSyncFailed, "set like")
	s.logger.Warn("Like sync failed, reverted", "story_id", op.storyID, "liked", op.liked, "queued", queued, "replayed", replayed, "error", err)

	if i == s.index {
		fx.event(s, EventLikeChanged)
	}
}
