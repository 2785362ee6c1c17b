package playback_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func runSession(t *testing.T, f *fixture, s *playback.Session) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	require.NoError(t, f.clock.BlockUntilContext(waitCtx, 1))
	return cancel, errCh
}

func fractionNear(s *playback.Session, want float64) func() bool {
	return func() bool {
		return math.Abs(s.Snapshot().Fraction-want) < 1e-9
	}
}

func TestRun(t *testing.T) {
	t.Run("advances with the clock and stops on close", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		f := newFixture(t)
		s, _ := f.open(t, makeStories(3), 0, nil)
		cancel, errCh := runSession(t, f, s)
		defer cancel()

		f.clock.Advance(duration)
		require.Eventually(t, func() bool { return s.Snapshot().Index == 1 }, time.Second, time.Millisecond)
		assert.Zero(t, s.Snapshot().Fraction)

		s.Close()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("run did not return after close")
		}
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		f := newFixture(t)
		s, _ := f.open(t, makeStories(1), 0, nil)
		cancel, errCh := runSession(t, f, s)

		cancel()
		select {
		case err := <-errCh:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("run did not return after cancel")
		}
		assert.Equal(t, playback.StatePlaying, s.Snapshot().State)
	})

	t.Run("time spent paused does not count", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		f := newFixture(t)
		s, _ := f.open(t, makeStories(2), 0, nil)
		cancel, errCh := runSession(t, f, s)
		defer func() {
			cancel()
			<-errCh
		}()

		s.Pause()
		f.clock.Advance(10 * time.Second)
		s.Resume()
		f.clock.Advance(time.Second)

		require.Eventually(t, fractionNear(s, 0.2), time.Second, time.Millisecond)
		assert.Equal(t, 0, s.Snapshot().Index)
	})

	t.Run("refuses a second driver", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		f := newFixture(t)
		s, _ := f.open(t, makeStories(1), 0, nil)
		cancel, errCh := runSession(t, f, s)

		assert.ErrorIs(t, s.Run(context.Background()), playback.ErrRunning)

		cancel()
		<-errCh
	})

	t.Run("returns at once on a closed session", func(t *testing.T) {
		f := newFixture(t)
		s, _ := f.open(t, makeStories(1), 0, nil)
		s.Close()

		assert.NoError(t, s.Run(context.Background()))
	})
}
