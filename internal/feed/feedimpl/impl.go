package feedimpl

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/events"
	"github.com/orgball2608/story-viewer-bot/internal/feed"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Stories storyservice.Client
	Events  events.Subscriber
	Config  *config.Config
	Logger  logger.Logger
	Clock   clockwork.Clock `optional:"true"`
}

type entry struct {
	stories    []domain.Story
	fetchedAt  time.Time
	generation uint64
}

// Impl caches one story list per viewer. Lists live for the refresh interval
// or until RequestRefresh is called.
type Impl struct {
	stories  storyservice.Client
	events   events.Subscriber
	logger   logger.Logger
	clock    clockwork.Clock
	interval time.Duration

	mu         sync.Mutex
	generation uint64
	patches    uint64
	cache      map[string]entry
}

func New(opts Opts) *Impl {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := opts.Config.Feed.RefreshInterval
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	return &Impl{
		stories:  opts.Stories,
		events:   opts.Events,
		logger:   opts.Logger.WithComponent("Feed"),
		clock:    clock,
		interval: interval,
		cache:    make(map[string]entry),
	}
}

var (
	_ feed.Client           = (*Impl)(nil)
	_ playback.FeedNotifier = (*Impl)(nil)
)

func (f *Impl) Stories(ctx context.Context, viewer domain.Viewer) ([]domain.Story, error) {
	if stories, ok := f.cached(viewer.ID); ok {
		return stories, nil
	}

	f.mu.Lock()
	gen, patches := f.generation, f.patches
	f.mu.Unlock()

	stories, err := f.stories.ListActive(ctx, viewer)
	if err != nil {
		return nil, apperrors.Wrap(err, "load feed")
	}

	f.mu.Lock()
	// A refresh or count change seen while loading makes this result stale already.
	if gen == f.generation && patches == f.patches {
		f.cache[viewer.ID] = entry{stories: stories, fetchedAt: f.clock.Now(), generation: gen}
	}
	f.mu.Unlock()

	return slices.Clone(stories), nil
}

func (f *Impl) cached(viewerID string) ([]domain.Story, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.cache[viewerID]
	if !ok || !f.freshLocked(e) {
		return nil, false
	}
	return slices.Clone(e.stories), true
}

func (f *Impl) freshLocked(e entry) bool {
	return e.generation == f.generation && f.clock.Since(e.fetchedAt) < f.interval
}

func (f *Impl) RequestRefresh() {
	f.mu.Lock()
	f.generation++
	f.mu.Unlock()
	f.logger.Debug("Feed refresh requested")
}

// applyCount patches cached lists in place after a like or view so the next
// read reflects it without reloading.
func (f *Impl) applyCount(kind events.Kind, e events.StoryEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patches++
	for viewerID, cached := range f.cache {
		for i := range cached.stories {
			s := &cached.stories[i]
			if s.ID != e.StoryID {
				continue
			}
			switch kind {
			case events.KindLiked:
				s.LikeCount = e.Count
				if viewerID == e.ViewerID && viewerID != "" {
					s.ViewerHasLiked = e.Liked
				}
			case events.KindViewed:
				s.ViewCount = e.Count
				if viewerID == e.ViewerID && viewerID != "" {
					s.ViewerHasViewed = true
				}
			}
		}
	}
}

func (f *Impl) Refresh(ctx context.Context) error {
	f.mu.Lock()
	for id, e := range f.cache {
		if !f.freshLocked(e) {
			delete(f.cache, id)
		}
	}
	f.mu.Unlock()

	_, err := f.Stories(ctx, domain.Anonymous)
	return err
}
