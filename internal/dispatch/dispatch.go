// Package dispatch runs fire-and-forget story service calls on a bounded
// goroutine pool.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

const defaultWorkers = 32

type Pool struct {
	pool   *ants.Pool
	logger logger.Logger
}

var _ playback.Dispatcher = (*Pool)(nil)

// NewPool returns a pool of size workers. Dispatch fails instead of waiting
// when every worker is busy.
func NewPool(size int, log logger.Logger) (*Pool, error) {
	if size <= 0 {
		size = defaultWorkers
	}
	p := &Pool{logger: log.WithComponent("Dispatch")}

	pool, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(v any) {
			p.logger.Error("Dispatched task panicked", "panic", fmt.Sprint(v))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	p.pool = pool
	return p, nil
}

func (p *Pool) Dispatch(task func()) error {
	return p.pool.Submit(task)
}

func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release waits up to timeout for running tasks, then frees the workers.
func (p *Pool) Release(timeout time.Duration) error {
	return p.pool.ReleaseTimeout(timeout)
}

type Opts struct {
	fx.In
	Config    *config.Config
	Logger    logger.Logger
	Lifecycle fx.Lifecycle
}

func New(opts Opts) (*Pool, error) {
	p, err := NewPool(opts.Config.Playback.Workers, opts.Logger)
	if err != nil {
		return nil, err
	}
	opts.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			timeout := 5 * time.Second
			if dl, ok := ctx.Deadline(); ok {
				timeout = time.Until(dl)
			}
			if err := p.Release(timeout); err != nil {
				p.logger.Warn("Worker pool did not drain", "error", err)
			}
			return nil
		},
	})
	return p, nil
}

var Module = fx.Provide(
	New,
	func(p *Pool) playback.Dispatcher { return p },
)
