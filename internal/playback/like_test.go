package playback_test

import (
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/playback"
	mock_playback "github.com/orgball2608/story-viewer-bot/internal/playback/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRejectingDispatcher(f *fixture) *mock_playback.MockDispatcher {
	d := mock_playback.NewMockDispatcher(f.ctrl)
	d.EXPECT().Dispatch(gomock.Any()).Return(errors.New("pool overloaded")).AnyTimes()
	return d
}

func likeState(s *playback.Session) (bool, int) {
	st := s.Snapshot().Story
	return st.ViewerHasLiked, st.LikeCount
}

func TestToggleLike(t *testing.T) {
	t.Run("double toggle round trips", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		gomock.InOrder(
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).Return(nil),
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, false).Return(nil),
		)

		s, rec := f.open(t, makeStories(2), 0, viewer)

		s.ToggleLike()
		liked, count := likeState(s)
		assert.True(t, liked)
		assert.Equal(t, 11, count)
		s.Wait()

		s.ToggleLike()
		s.Wait()

		liked, count = likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)
		assert.Equal(t, 2, rec.count(playback.EventLikeChanged))
	})

	t.Run("failure reverts", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).Return(errors.New("503"))

		s, rec := f.open(t, makeStories(2), 0, viewer)
		s.ToggleLike()
		s.Wait()

		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)
		assert.Equal(t, 2, rec.count(playback.EventLikeChanged))
	})

	t.Run("toggles on one story are sent one after another", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		started := make(chan bool, 2)
		release := make(chan struct{})
		gomock.InOrder(
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).
				DoAndReturn(func(_, _, _ any, liked bool) error {
					started <- liked
					<-release
					return nil
				}),
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, false).
				DoAndReturn(func(_, _, _ any, liked bool) error {
					started <- liked
					return nil
				}),
		)

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.ToggleLike()
		require.True(t, <-started)

		s.ToggleLike()
		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)

		select {
		case <-started:
			t.Fatal("second request sent before the first settled")
		case <-time.After(20 * time.Millisecond):
		}

		close(release)
		s.Wait()
		assert.False(t, <-started)

		liked, count = likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)
	})

	t.Run("failure replays the last queued toggle", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		started := make(chan struct{})
		release := make(chan struct{})
		gomock.InOrder(
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).
				DoAndReturn(func(_, _, _ any, _ bool) error {
					close(started)
					<-release
					return errors.New("conflict")
				}),
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).Return(nil),
		)

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.ToggleLike()
		<-started
		s.ToggleLike()
		s.ToggleLike()

		liked, count := likeState(s)
		assert.True(t, liked)
		assert.Equal(t, 11, count)

		close(release)
		s.Wait()

		liked, count = likeState(s)
		assert.True(t, liked)
		assert.Equal(t, 11, count)
	})

	t.Run("failure with queued toggles that cancel out sends nothing more", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		started := make(chan struct{})
		release := make(chan struct{})
		f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).
			DoAndReturn(func(_, _, _ any, _ bool) error {
				close(started)
				<-release
				return errors.New("conflict")
			}).Times(1)

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.ToggleLike()
		<-started
		s.ToggleLike()

		close(release)
		s.Wait()

		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)
	})

	t.Run("panicking client reverts and frees the queue", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		gomock.InOrder(
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).
				DoAndReturn(func(_, _, _ any, _ bool) error {
					panic("nil connection")
				}),
			f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).Return(nil),
		)

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.ToggleLike()
		s.Wait()

		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)

		s.ToggleLike()
		s.Wait()

		liked, count = likeState(s)
		assert.True(t, liked)
		assert.Equal(t, 11, count)
	})

	t.Run("revert after navigating away", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		started := make(chan struct{})
		release := make(chan struct{})
		f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, true).
			DoAndReturn(func(_, _, _ any, _ bool) error {
				close(started)
				<-release
				return errors.New("timeout")
			})

		s, _ := f.open(t, makeStories(2), 0, viewer)
		s.ToggleLike()
		<-started
		s.Next()
		close(release)
		s.Wait()

		s.Previous()
		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)
	})

	t.Run("rejected dispatch reverts", func(t *testing.T) {
		f := newFixture(t)
		c := playback.NewController(playback.Opts{
			Stories:    f.svc,
			Dispatcher: newRejectingDispatcher(f),
			Clock:      f.clock,
		})
		s, err := c.Open(playback.OpenParams{Stories: makeStories(1), Auth: viewer})
		require.NoError(t, err)

		s.ToggleLike()

		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)
	})

	t.Run("count never goes negative", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		f.svc.EXPECT().SetLike(gomock.Any(), "story-1", viewer.ID, false).Return(nil)

		stories := makeStories(1)
		stories[0].ViewerHasLiked = true
		stories[0].LikeCount = 0
		s, _ := f.open(t, stories, 0, viewer)

		s.ToggleLike()
		s.Wait()

		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Zero(t, count)
	})

	t.Run("anonymous viewer gets one login prompt", func(t *testing.T) {
		f := newFixture(t)
		s, rec := f.open(t, makeStories(2), 0, nil)

		s.ToggleLike()
		s.Wait()

		liked, count := likeState(s)
		assert.False(t, liked)
		assert.Equal(t, 10, count)
		assert.Equal(t, 1, rec.count(playback.EventLoginRequired))
		assert.Zero(t, rec.count(playback.EventLikeChanged))

		events := rec.all()
		assert.Equal(t, playback.ActionLike, events[len(events)-1].Action)
	})

	t.Run("closed session ignores toggles", func(t *testing.T) {
		f := newFixture(t)
		f.svc.EXPECT().RecordView(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		s, rec := f.open(t, makeStories(1), 0, viewer)

		s.Close()
		s.ToggleLike()

		assert.Zero(t, rec.count(playback.EventLikeChanged))
	})
}
