package playback

import (
	"context"
)

// Run samples the clock every TickInterval and feeds the elapsed time to the
// session until it closes or ctx is done. The ticker is released on return.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer s.running.Store(false)

	select {
	case <-s.done:
		return nil
	default:
	}

	clock := s.ctrl.clock
	s.mu.Lock()
	s.lastTick = clock.Now()
	s.mu.Unlock()

	ticker := clock.NewTicker(s.ctrl.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-ticker.Chan():
			s.tickAt(clock.Now())
		}
	}
}
