package playback

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
)

type Config struct {
	// StoryDuration is how long one story stays on screen.
	StoryDuration time.Duration
	// TickInterval is the Run loop sampling period.
	TickInterval time.Duration
	// CallTimeout bounds every story service call.
	CallTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		StoryDuration: 5 * time.Second,
		TickInterval:  50 * time.Millisecond,
		CallTimeout:   10 * time.Second,
	}
}

type Opts struct {
	Stories StoryService
	Replies ReplySender
	// Feed is optional.
	Feed FeedNotifier
	// Dispatcher defaults to one goroutine per task.
	Dispatcher Dispatcher
	// Clock defaults to the real clock.
	Clock  clockwork.Clock
	Logger logger.Logger
	Config Config
}

// Controller opens playback sessions that share one set of collaborators.
type Controller struct {
	stories    StoryService
	replies    ReplySender
	feed       FeedNotifier
	dispatcher Dispatcher
	clock      clockwork.Clock
	logger     logger.Logger
	config     Config
}

func NewController(opts Opts) *Controller {
	cfg := opts.Config
	def := DefaultConfig()
	if cfg.StoryDuration <= 0 {
		cfg.StoryDuration = def.StoryDuration
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}

	c := &Controller{
		stories:    opts.Stories,
		replies:    opts.Replies,
		feed:       opts.Feed,
		dispatcher: opts.Dispatcher,
		clock:      opts.Clock,
		logger:     opts.Logger,
		config:     cfg,
	}
	if c.dispatcher == nil {
		c.dispatcher = goDispatcher{}
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	return c
}

func (c *Controller) Config() Config {
	return c.config
}

type OpenParams struct {
	Stories    []domain.Story
	StartIndex int
	Auth       Auth
	// Listener is optional.
	Listener Listener
}

// Open starts a session in StatePlaying at p.StartIndex. The session works on
// a copy of p.Stories.
func (c *Controller) Open(p OpenParams) (*Session, error) {
	if len(p.Stories) == 0 {
		return nil, fmt.Errorf("%w: empty story list", ErrInvalidIndex)
	}
	if p.StartIndex < 0 || p.StartIndex >= len(p.Stories) {
		return nil, fmt.Errorf("%w: start index %d, %d stories", ErrInvalidIndex, p.StartIndex, len(p.Stories))
	}

	auth := p.Auth
	if auth == nil {
		auth = anonymousAuth{}
	}

	stories := slices.Clone(p.Stories)
	positions := make(map[string]int, len(stories))
	for i, st := range stories {
		positions[st.ID] = i
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		ctrl:      c,
		auth:      auth,
		listener:  p.Listener,
		logger:    c.logger.With("session_id", id),
		stories:   stories,
		positions: positions,
		index:     p.StartIndex,
		state:     StatePlaying,
		lastTick:  c.clock.Now(),
		viewed:    make(map[string]struct{}),
		likes:     make(map[string]*likeQueue),
		done:      make(chan struct{}),
	}

	s.do(func(fx *effects) {
		fx.event(s, EventStoryChanged)
		s.recordViewLocked(fx)
	})

	s.logger.Debug("Playback session opened", "start_index", p.StartIndex, "stories", len(stories))
	return s, nil
}

type goDispatcher struct{}

func (goDispatcher) Dispatch(task func()) error {
	go task()
	return nil
}

type anonymousAuth struct{}

func (anonymousAuth) Viewer() domain.Viewer { return domain.Anonymous }

// StaticAuth always reports the same viewer.
type StaticAuth domain.Viewer

func (a StaticAuth) Viewer() domain.Viewer { return domain.Viewer(a) }
