package feedimpl

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/story-viewer-bot/internal/events"
)

// ScheduleRefresh reloads the feed every refresh interval until ctx is done.
func (f *Impl) ScheduleRefresh(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create feed scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(f.interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			taskCtx, cancel := context.WithTimeout(ctx, f.interval)
			defer cancel()

			if err := f.Refresh(taskCtx); err != nil {
				f.logger.Error("Scheduled feed refresh failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed refresh: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		f.logger.Info("Stopping feed scheduler")
		if err := scheduler.Shutdown(); err != nil {
			f.logger.Error("Failed to shut down feed scheduler", "error", err)
		}
	}()

	return nil
}

// WatchEvents marks the feed stale whenever a story is created or deleted and
// patches cached counts on likes and views, until ctx is done.
func (f *Impl) WatchEvents(ctx context.Context) error {
	if f.events == nil {
		return nil
	}

	var stops []func() error
	for _, kind := range []events.Kind{events.KindCreated, events.KindDeleted} {
		stop, err := f.events.Subscribe(kind, func(_ context.Context, e events.StoryEvent) {
			f.logger.Debug("Story event invalidates feed", "kind", string(kind), "story_id", e.StoryID)
			f.RequestRefresh()
		})
		if err != nil {
			for _, s := range stops {
				_ = s()
			}
			return fmt.Errorf("failed to watch %s events: %w", kind, err)
		}
		stops = append(stops, stop)
	}
	for _, kind := range []events.Kind{events.KindLiked, events.KindViewed} {
		stop, err := f.events.Subscribe(kind, func(_ context.Context, e events.StoryEvent) {
			f.applyCount(kind, e)
		})
		if err != nil {
			for _, s := range stops {
				_ = s()
			}
			return fmt.Errorf("failed to watch %s events: %w", kind, err)
		}
		stops = append(stops, stop)
	}

	go func() {
		<-ctx.Done()
		for _, s := range stops {
			if err := s(); err != nil {
				f.logger.Warn("Failed to stop event subscription", "error", err)
			}
		}
	}()

	return nil
}
