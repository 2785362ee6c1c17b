package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles actions per chat.
type Limiter interface {
	Allow(chatID int64) bool
}

// InMemoryLimiter keeps one token bucket per chat.
type InMemoryLimiter struct {
	mu      sync.Mutex
	buckets map[int64]*rate.Limiter
	every   rate.Limit
	burst   int
	now     func() time.Time
}

// NewInMemoryLimiter allows requests actions per window with bursts of up to
// burst. NewInMemoryLimiter(1, 5*time.Second, 3) allows one reply every five
// seconds after an initial run of three.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	if requests <= 0 {
		requests = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &InMemoryLimiter{
		buckets: make(map[int64]*rate.Limiter),
		every:   rate.Every(per / time.Duration(requests)),
		burst:   burst,
		now:     time.Now,
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)

func (l *InMemoryLimiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[chatID]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[chatID] = b
	}
	return b.AllowN(l.now(), 1)
}

// WithClock makes the limiter read time from now. It is meant for tests.
func (l *InMemoryLimiter) WithClock(now func() time.Time) *InMemoryLimiter {
	l.now = now
	return l
}
