package playback_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOpen(t *testing.T) {
	t.Run("starts playing at the requested index", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 3; i++ {
			s, rec := f.open(t, makeStories(3), i, nil)
			snap := s.Snapshot()
			assert.Equal(t, playback.StatePlaying, snap.State)
			assert.Equal(t, i, snap.Index)
			assert.Equal(t, 3, snap.Total)
			assert.Zero(t, snap.Fraction)
			assert.NotEmpty(t, s.ID())
			assert.Equal(t, 1, rec.count(playback.EventStoryChanged))
		}
	})

	t.Run("rejects invalid indexes", func(t *testing.T) {
		f := newFixture(t)
		cases := []struct {
			name    string
			stories []domain.Story
			start   int
		}{
			{"empty list", nil, 0},
			{"negative", makeStories(2), -1},
			{"past the end", makeStories(2), 2},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				s, err := f.c.Open(playback.OpenParams{Stories: tc.stories, StartIndex: tc.start})
				require.ErrorIs(t, err, playback.ErrInvalidIndex)
				assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidIndex))
				assert.Nil(t, s)
			})
		}
	})

	t.Run("works on a copy of the list", func(t *testing.T) {
		f := newFixture(t)
		stories := makeStories(2)
		s, _ := f.open(t, stories, 0, nil)
		stories[0].OwnerDisplayName = "changed"
		assert.Equal(t, owner.Username, s.Snapshot().Story.OwnerDisplayName)
	})
}

func TestTick(t *testing.T) {
	t.Run("accumulates elapsed time", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(3), 0, nil)

		last := 0.0
		for i := 0; i < 40; i++ {
			s.Tick(interval)
			got := s.Snapshot().Fraction
			require.GreaterOrEqual(t, got, last)
			last = got
		}
		assert.InDelta(t, 0.4, last, 1e-9)
		assert.Equal(t, 0, s.Snapshot().Index)
	})

	t.Run("auto-advances with the fraction reset", func(t *testing.T) {
		f := newFixture(t)
		s, rec := f.open(t, makeStories(3), 0, nil)

		tickN(s, 100, interval)

		snap := s.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.Zero(t, snap.Fraction)
		assert.Equal(t, playback.StatePlaying, snap.State)
		assert.Equal(t, 2, rec.count(playback.EventStoryChanged))
	})

	t.Run("closes after the last story", func(t *testing.T) {
		f := newFixture(t)
		s, rec := f.open(t, makeStories(3), 0, nil)

		tickN(s, 300, interval)

		snap := s.Snapshot()
		assert.Equal(t, playback.StateClosed, snap.State)
		assert.Equal(t, playback.CloseReasonFinished, snap.Reason)
		assert.Equal(t, 2, snap.Index)
		assert.Equal(t, 1, rec.count(playback.EventClosed))
		assert.Equal(t, 3, rec.count(playback.EventStoryChanged))

		select {
		case <-s.Done():
		default:
			t.Fatal("done channel not closed")
		}
	})

	t.Run("large delta advances by one story only", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(3), 0, nil)

		s.Tick(3 * duration)

		snap := s.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.Zero(t, snap.Fraction)
	})

	t.Run("ignores non-positive deltas", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(1), 0, nil)

		s.Tick(0)
		s.Tick(-time.Second)

		assert.Zero(t, s.Snapshot().Fraction)
	})

	t.Run("holds on live stories", func(t *testing.T) {
		f := newFixture(t)
		stories := makeStories(2)
		stories[0].Kind = domain.StoryKindLiveOrigin
		s, _ := f.open(t, stories, 0, nil)

		tickN(s, 200, interval)

		snap := s.Snapshot()
		assert.Equal(t, 0, snap.Index)
		assert.Zero(t, snap.Fraction)

		s.Next()
		tickN(s, 50, interval)
		assert.InDelta(t, 0.5, s.Snapshot().Fraction, 1e-9)
	})
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t)
	s, rec := f.open(t, makeStories(2), 0, nil)

	tickN(s, 10, interval)
	s.Pause()
	s.Pause()
	tickN(s, 50, interval)

	snap := s.Snapshot()
	assert.Equal(t, playback.StatePaused, snap.State)
	assert.InDelta(t, 0.1, snap.Fraction, 1e-9)
	assert.Equal(t, 1, rec.count(playback.EventPaused))

	s.Resume()
	s.Resume()
	tickN(s, 10, interval)

	snap = s.Snapshot()
	assert.Equal(t, playback.StatePlaying, snap.State)
	assert.InDelta(t, 0.2, snap.Fraction, 1e-9)
	assert.Equal(t, 1, rec.count(playback.EventResumed))
}

func TestNavigation(t *testing.T) {
	t.Run("next from paused plays the following story", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(3), 0, nil)

		tickN(s, 30, interval)
		s.Pause()
		s.Next()

		snap := s.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.Zero(t, snap.Fraction)
		assert.Equal(t, playback.StatePlaying, snap.State)
	})

	t.Run("next on the last story closes", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(2), 1, nil)

		s.Next()

		snap := s.Snapshot()
		assert.Equal(t, playback.StateClosed, snap.State)
		assert.Equal(t, playback.CloseReasonFinished, snap.Reason)
	})

	t.Run("previous resets progress", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(3), 2, nil)

		tickN(s, 30, interval)
		s.Previous()

		snap := s.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.Zero(t, snap.Fraction)
	})

	t.Run("previous on the first story is a no-op", func(t *testing.T) {
		f := newFixture(t)
		s, rec := f.open(t, makeStories(3), 0, nil)

		tickN(s, 30, interval)
		s.Pause()
		before := s.Snapshot()
		events := len(rec.all())

		s.Previous()

		assert.Equal(t, before, s.Snapshot())
		assert.Len(t, rec.all(), events)
	})

	t.Run("tick after navigation counts for the new story only", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(3), 0, nil)

		tickN(s, 99, interval)
		s.Next()
		s.Tick(interval)

		snap := s.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.InDelta(t, 0.01, snap.Fraction, 1e-9)
	})
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	s, rec := f.open(t, makeStories(3), 1, nil)

	s.Close()
	s.Close()
	s.Next()
	s.Previous()
	s.Resume()
	tickN(s, 200, interval)

	snap := s.Snapshot()
	assert.Equal(t, playback.StateClosed, snap.State)
	assert.Equal(t, playback.CloseReasonRequested, snap.Reason)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 1, rec.count(playback.EventClosed))
	assert.Equal(t, 1, rec.count(playback.EventStoryChanged))
}

func TestProgress(t *testing.T) {
	f := newFixture(t)
	s, _ := f.open(t, makeStories(4), 1, nil)

	tickN(s, 25, interval)

	got := s.Progress()
	require.Len(t, got, 4)
	assert.InDelta(t, 100, got[0], 1e-9)
	assert.InDelta(t, 25, got[1], 1e-9)
	assert.Zero(t, got[2])
	assert.Zero(t, got[3])
}

// Three stories of 5000ms driven by 50ms ticks: after 5000ms of ticks the
// viewer sits on the second story with an empty bar.
func TestPlaybackScenario(t *testing.T) {
	f := newFixture(t)
	s, _ := f.open(t, makeStories(3), 0, nil)

	var elapsed time.Duration
	for elapsed < duration {
		s.Tick(interval)
		elapsed += interval
	}

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.Zero(t, snap.Fraction)
	assert.Equal(t, []float64{100, 0, 0}, s.Progress())
}

func TestRecordView(t *testing.T) {
	t.Run("once per story across revisits", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), "story-1", viewer.ID).Return(nil).Times(1)
		f.svc.EXPECT().RecordView(gomock.Any(), "story-2", viewer.ID).Return(nil).Times(1)
		f.svc.EXPECT().RecordView(gomock.Any(), "story-3", viewer.ID).Return(nil).Times(1)

		s, _ := f.open(t, makeStories(3), 0, viewer)
		s.Next()
		s.Previous()
		s.Next()
		s.RecordView()
		tickN(s, 100, interval)
		s.Previous()
		s.Previous()
		s.Wait()
	})

	t.Run("failures are swallowed", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), viewer.ID).
			Return(errors.New("connection reset")).Times(2)

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.Next()
		s.Wait()

		snap := s.Snapshot()
		assert.Equal(t, playback.StatePlaying, snap.State)
		assert.Equal(t, 1, snap.Index)
	})

	t.Run("anonymous viewers are not recorded", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(3), 0, nil)
		s.Next()
		s.Next()
		s.Wait()
	})

	t.Run("rejected dispatch is dropped", func(t *testing.T) {
		f := newFixture(t)
		dispatcher := newRejectingDispatcher(f)
		c := playback.NewController(playback.Opts{Stories: f.svc, Dispatcher: dispatcher, Clock: f.clock})

		s, err := c.Open(playback.OpenParams{Stories: makeStories(2), Auth: viewer})
		require.NoError(t, err)
		s.Next()
		s.Wait()
		assert.Equal(t, 1, s.Snapshot().Index)
	})
}

func TestDeleteStory(t *testing.T) {
	t.Run("owner deletes and the feed refreshes", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), owner.ID).Return(nil).AnyTimes()
		f.svc.EXPECT().DeleteStory(gomock.Any(), "story-2", owner.ID).Return(nil)
		f.feed.EXPECT().RequestRefresh().Times(1)

		s, rec := f.open(t, makeStories(3), 1, owner)
		require.NoError(t, s.DeleteStory(context.Background()))

		snap := s.Snapshot()
		assert.Equal(t, playback.StateClosed, snap.State)
		assert.Equal(t, playback.CloseReasonDeleted, snap.Reason)
		assert.Equal(t, 1, rec.count(playback.EventClosed))
		<-s.Done()

		assert.ErrorIs(t, s.DeleteStory(context.Background()), playback.ErrClosed)
	})

	t.Run("non-owner is refused without a call", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), viewer.ID).Return(nil).AnyTimes()

		s, rec := f.open(t, makeStories(2), 0, viewer)
		before := s.Snapshot()
		events := len(rec.all())

		err := s.DeleteStory(context.Background())
		require.ErrorIs(t, err, playback.ErrUnauthorized)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
		assert.Equal(t, before, s.Snapshot())
		assert.Len(t, rec.all(), events)
	})

	t.Run("anonymous viewer gets one login prompt", func(t *testing.T) {
		f := newFixture(t)
		s, rec := f.open(t, makeStories(2), 0, nil)

		require.NoError(t, s.DeleteStory(context.Background()))

		assert.Equal(t, 1, rec.count(playback.EventLoginRequired))
		assert.Equal(t, playback.ActionDelete, rec.all()[len(rec.all())-1].Action)
		assert.Equal(t, playback.StatePlaying, s.Snapshot().State)
	})

	t.Run("service failure keeps the session open", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), owner.ID).Return(nil).AnyTimes()
		f.svc.EXPECT().DeleteStory(gomock.Any(), "story-1", owner.ID).Return(errors.New("timeout"))

		s, _ := f.open(t, makeStories(2), 0, owner)

		require.Error(t, s.DeleteStory(context.Background()))
		assert.Equal(t, playback.StatePlaying, s.Snapshot().State)
	})
}

func TestReply(t *testing.T) {
	t.Run("drafting pauses and sending resumes", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), viewer.ID).Return(nil).AnyTimes()
		f.replies.EXPECT().
			SendReply(gomock.Any(), gomock.Any(), domain.Viewer(viewer), "nice shot").
			DoAndReturn(func(_ context.Context, st domain.Story, _ domain.Viewer, _ string) error {
				assert.Equal(t, "story-1", st.ID)
				return nil
			})

		s, rec := f.open(t, makeStories(2), 0, viewer)
		s.StartReply()
		s.SetDraft("nice")

		snap := s.Snapshot()
		assert.True(t, snap.Drafting)
		assert.Equal(t, "nice", snap.Draft)
		assert.Equal(t, playback.StatePaused, snap.State)

		require.NoError(t, s.SendReply(context.Background(), "  nice shot \n"))

		snap = s.Snapshot()
		assert.False(t, snap.Drafting)
		assert.Equal(t, playback.StatePlaying, snap.State)
		assert.Equal(t, 1, rec.count(playback.EventReplyStarted))
		assert.Equal(t, 1, rec.count(playback.EventReplyFinished))
	})

	t.Run("already paused stays paused", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), viewer.ID).Return(nil).AnyTimes()

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.Pause()
		s.StartReply()
		s.CancelReply()

		snap := s.Snapshot()
		assert.False(t, snap.Drafting)
		assert.Equal(t, playback.StatePaused, snap.State)
	})

	t.Run("blank text cancels", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), viewer.ID).Return(nil).AnyTimes()

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.StartReply()

		require.NoError(t, s.SendReply(context.Background(), "   "))

		snap := s.Snapshot()
		assert.False(t, snap.Drafting)
		assert.Equal(t, playback.StatePlaying, snap.State)
	})

	t.Run("failure keeps the draft", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), viewer.ID).Return(nil).AnyTimes()
		f.replies.EXPECT().SendReply(gomock.Any(), gomock.Any(), gomock.Any(), "hey").
			Return(errors.New("chat not found"))

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.StartReply()

		require.Error(t, s.SendReply(context.Background(), "hey"))

		snap := s.Snapshot()
		assert.True(t, snap.Drafting)
		assert.Equal(t, playback.StatePaused, snap.State)
	})

	t.Run("navigation drops the draft", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), viewer.ID).Return(nil).AnyTimes()

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.StartReply()
		s.SetDraft("half written")
		s.Next()

		snap := s.Snapshot()
		assert.False(t, snap.Drafting)
		assert.Empty(t, snap.Draft)
		assert.Equal(t, playback.StatePlaying, snap.State)
	})

	t.Run("anonymous viewer gets a login prompt per attempt", func(t *testing.T) {
		f := newFixture(t)
		s, rec := f.open(t, makeStories(2), 0, nil)

		s.StartReply()
		require.NoError(t, s.SendReply(context.Background(), "hi"))

		assert.Equal(t, 2, rec.count(playback.EventLoginRequired))
		assert.False(t, s.Snapshot().Drafting)
		assert.Equal(t, playback.StatePlaying, s.Snapshot().State)
	})
}
