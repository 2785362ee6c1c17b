// Package viewer keeps one story viewer per Telegram chat and renders its
// playback session into the chat.
package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/story-viewer-bot/internal/auth"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"go.uber.org/fx"
)

var ErrShutdown = errors.New("viewer registry is shut down")

type Opts struct {
	fx.In

	Controller *playback.Controller
	Telegram   telegram.Client
	Auth       auth.Client
	Config     *config.Config
	Logger     logger.Logger
	Lifecycle  fx.Lifecycle    `optional:"true"`
	Clock      clockwork.Clock `optional:"true"`
}

type Registry struct {
	ctrl     *playback.Controller
	tg       telegram.Client
	auth     auth.Client
	clock    clockwork.Clock
	interval time.Duration
	logger   logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	views  map[int64]*View
	closed bool
}

func New(opts Opts) *Registry {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := opts.Config.Playback.RenderInterval
	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		ctrl:     opts.Controller,
		tg:       opts.Telegram,
		auth:     opts.Auth,
		clock:    clock,
		interval: interval,
		logger:   opts.Logger.WithComponent("Viewer"),
		ctx:      ctx,
		cancel:   cancel,
		views:    make(map[int64]*View),
	}

	if opts.Lifecycle != nil {
		opts.Lifecycle.Append(fx.Hook{
			OnStop: r.Shutdown,
		})
	}
	return r
}

// Open replaces the chat's current viewer with a new one over stories, starting
// at start.
func (r *Registry) Open(chatID int64, stories []domain.Story, start int) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrShutdown
	}

	v := &View{
		chatID:   chatID,
		auth:     r.auth.ContextFor(chatID),
		tg:       r.tg,
		clock:    r.clock,
		interval: r.interval,
		wake:     make(chan struct{}, 1),
	}
	s, err := r.ctrl.Open(playback.OpenParams{
		Stories:    stories,
		StartIndex: start,
		Auth:       v.auth,
		Listener:   v,
	})
	if err != nil {
		return nil, err
	}
	v.session = s
	v.logger = r.logger.With("chat_id", chatID, "session_id", s.ID())

	if old := r.views[chatID]; old != nil {
		old.session.Close()
	}
	r.views[chatID] = v

	r.wg.Add(2)
	go func() {
		defer r.wg.Done()
		if err := s.Run(r.ctx); err != nil && !errors.Is(err, context.Canceled) {
			v.logger.Error("Playback driver stopped", "error", err)
		}
	}()
	go func() {
		defer r.wg.Done()
		v.loop(r.ctx)
		r.forget(chatID, v)
	}()

	return v, nil
}

func (r *Registry) forget(chatID int64, v *View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.views[chatID] == v {
		delete(r.views, chatID)
	}
}

// Get returns the chat's open viewer.
func (r *Registry) Get(chatID int64) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[chatID]
	return v, ok
}

// Close closes the chat's viewer. It reports whether one was open.
func (r *Registry) Close(chatID int64) bool {
	v, ok := r.Get(chatID)
	if ok {
		v.session.Close()
	}
	return ok
}

// Shutdown closes every viewer and waits for their final frames and pending
// story service calls.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.mu.Unlock()

	for _, v := range views {
		v.session.Close()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		for _, v := range views {
			v.session.Wait()
		}
		close(done)
	}()

	defer r.cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var Module = fx.Provide(New)
