package storyserviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleCleanup removes long-expired stories every day at 3:00 until ctx is done.
func (s *Impl) ScheduleCleanup(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			deleted, err := s.CleanupExpired(cleanupCtx, s.config.Feed.CleanupAfter)
			if err != nil {
				s.logger.Error("Failed to clean up expired stories", "error", err)
				return
			}
			s.logger.Info("Story cleanup completed", "rows_deleted", deleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule story cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		s.logger.Info("Stopping story cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			s.logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
