package eventsimpl

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/orgball2608/story-viewer-bot/internal/events"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"go.uber.org/fx"
)

const clientName = "story-viewer-bot"

type Opts struct {
	fx.In
	Config    *config.Config
	Logger    logger.Logger
	Lifecycle fx.Lifecycle
}

// Bus publishes story events on NATS. Without a NATS URL it delivers them to
// in-process subscribers instead, on the publisher's goroutine.
type Bus struct {
	conn   *nats.Conn
	prefix string
	logger logger.Logger

	mu     sync.RWMutex
	nextID int
	local  map[events.Kind]map[int]events.Handler
}

var (
	_ events.Publisher  = (*Bus)(nil)
	_ events.Subscriber = (*Bus)(nil)
)

func New(opts Opts) (*Bus, error) {
	b := NewLocal(opts.Config.Nats.SubjectPrefix, opts.Logger)

	url := opts.Config.Nats.Url
	if url == "" {
		b.logger.Info("NATS URL not set, story events stay in process")
		return b, nil
	}

	nc, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				b.logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			b.logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "connect to nats")
	}
	b.conn = nc

	opts.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := nc.Drain(); err != nil {
				b.logger.Warn("NATS drain failed", "error", err)
				nc.Close()
			}
			return nil
		},
	})

	b.logger.Info("Connected to NATS", "url", nc.ConnectedUrl(), "prefix", b.prefix)
	return b, nil
}

func NewLocal(prefix string, log logger.Logger) *Bus {
	if prefix == "" {
		prefix = "story"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{
		prefix: prefix,
		logger: log.WithComponent("EventBus"),
		local:  make(map[events.Kind]map[int]events.Handler),
	}
}

func (b *Bus) Subject(kind events.Kind) string {
	return b.prefix + "." + string(kind)
}

func (b *Bus) Publish(ctx context.Context, kind events.Kind, e events.StoryEvent) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	if b.conn == nil {
		b.deliverLocal(ctx, kind, e)
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return apperrors.Wrap(err, "marshal story event")
	}

	msg := &nats.Msg{
		Subject: b.Subject(kind),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Content-Type", "application/json")

	b.logger.Debug("Publishing story event", "subject", msg.Subject, "story_id", e.StoryID)
	return b.conn.PublishMsg(msg)
}

func (b *Bus) Subscribe(kind events.Kind, h events.Handler) (func() error, error) {
	if b.conn == nil {
		return b.subscribeLocal(kind, h), nil
	}

	subject := b.Subject(kind)
	sub, err := b.conn.Subscribe(subject, func(m *nats.Msg) {
		var e events.StoryEvent
		if err := json.Unmarshal(m.Data, &e); err != nil {
			b.logger.Error("Invalid story event payload", "subject", m.Subject, "error", err)
			return
		}
		h(context.Background(), e)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "subscribe to "+subject)
	}
	return sub.Unsubscribe, nil
}

func (b *Bus) subscribeLocal(kind events.Kind, h events.Handler) func() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.local[kind] == nil {
		b.local[kind] = make(map[int]events.Handler)
	}
	b.local[kind][id] = h

	return func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.local[kind], id)
		return nil
	}
}

func (b *Bus) deliverLocal(ctx context.Context, kind events.Kind, e events.StoryEvent) {
	b.mu.RLock()
	handlers := make([]events.Handler, 0, len(b.local[kind]))
	for _, h := range b.local[kind] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}
