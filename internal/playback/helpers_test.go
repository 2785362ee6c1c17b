package playback_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	mock_playback "github.com/orgball2608/story-viewer-bot/internal/playback/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	duration = 5000 * time.Millisecond
	interval = 50 * time.Millisecond
)

var (
	viewer = playback.StaticAuth{ID: "viewer-1", Username: "neo"}
	owner  = playback.StaticAuth{ID: "owner-1", Username: "cyber_creator"}
)

func makeStories(n int) []domain.Story {
	out := make([]domain.Story, n)
	for i := range out {
		out[i] = domain.Story{
			ID:               fmt.Sprintf("story-%d", i+1),
			OwnerID:          owner.ID,
			OwnerDisplayName: owner.Username,
			MediaURL:         fmt.Sprintf("https://cdn.example.com/%d.jpg", i+1),
			Kind:             domain.StoryKindEphemeral,
			LikeCount:        10,
		}
	}
	return out
}

type recorder struct {
	mu     sync.Mutex
	events []playback.Event
}

func (r *recorder) HandleEvent(e playback.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(t playback.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) all() []playback.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]playback.Event(nil), r.events...)
}

type fixture struct {
	ctrl    *gomock.Controller
	svc     *mock_playback.MockStoryService
	replies *mock_playback.MockReplySender
	feed    *mock_playback.MockFeedNotifier
	clock   *clockwork.FakeClock
	c       *playback.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:    ctrl,
		svc:     mock_playback.NewMockStoryService(ctrl),
		replies: mock_playback.NewMockReplySender(ctrl),
		feed:    mock_playback.NewMockFeedNotifier(ctrl),
		clock:   clockwork.NewFakeClock(),
	}
	f.c = playback.NewController(playback.Opts{
		Stories: f.svc,
		Replies: f.replies,
		Feed:    f.feed,
		Clock:   f.clock,
		Config: playback.Config{
			StoryDuration: duration,
			TickInterval:  interval,
			CallTimeout:   time.Second,
		},
	})
	return f
}

// open starts a session and makes sure its background calls settle before the
// mock controller checks expectations.
func (f *fixture) open(t *testing.T, stories []domain.Story, start int, auth playback.Auth) (*playback.Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := f.c.Open(playback.OpenParams{
		Stories:    stories,
		StartIndex: start,
		Auth:       auth,
		Listener:   rec,
	})
	require.NoError(t, err)
	t.Cleanup(s.Wait)
	return s, rec
}

func tickN(s *playback.Session, n int, d time.Duration) {
	for i := 0; i < n; i++ {
		s.Tick(d)
	}
}
