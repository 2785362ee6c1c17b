package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/orgball2608/story-viewer-bot/internal/auth/authimpl"
	"github.com/orgball2608/story-viewer-bot/internal/command"
	"github.com/orgball2608/story-viewer-bot/internal/command/commandimpl"
	"github.com/orgball2608/story-viewer-bot/internal/dispatch"
	"github.com/orgball2608/story-viewer-bot/internal/events/eventsimpl"
	"github.com/orgball2608/story-viewer-bot/internal/feed"
	"github.com/orgball2608/story-viewer-bot/internal/feed/feedimpl"
	"github.com/orgball2608/story-viewer-bot/internal/messaging"
	"github.com/orgball2608/story-viewer-bot/internal/migrations"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	repositories "github.com/orgball2608/story-viewer-bot/internal/repositories/fx"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice/storyserviceimpl"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/orgball2608/story-viewer-bot/internal/telegram/telegramimpl"
	"github.com/orgball2608/story-viewer-bot/internal/viewer"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"github.com/orgball2608/story-viewer-bot/pkg/pgx"
	"github.com/orgball2608/story-viewer-bot/pkg/retry"
	"go.uber.org/fx"
)

var App = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	repositories.Module,
	eventsimpl.Module,
	storyserviceimpl.Module,
	authimpl.Module,
	feedimpl.Module,
	dispatch.Module,
	telegramimpl.Module,
	messaging.Module,
	fx.Provide(newPlayback),
	viewer.Module,
	commandimpl.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

type playbackOpts struct {
	fx.In

	Config     *config.Config
	Logger     logger.Logger
	Stories    playback.StoryService
	Replies    playback.ReplySender
	Feed       playback.FeedNotifier
	Dispatcher playback.Dispatcher
}

func newPlayback(opts playbackOpts) *playback.Controller {
	return playback.NewController(playback.Opts{
		Stories:    opts.Stories,
		Replies:    opts.Replies,
		Feed:       opts.Feed,
		Dispatcher: opts.Dispatcher,
		Logger:     opts.Logger.WithComponent("Playback"),
		Config: playback.Config{
			StoryDuration: opts.Config.Playback.StoryDuration,
			TickInterval:  opts.Config.Playback.TickInterval,
			CallTimeout:   opts.Config.Playback.CallTimeout,
		},
	})
}

func migrate(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			db, err := sql.Open("postgres", cfg.GetDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			err = retry.Do(ctx, log, "migrations", func() error {
				return migrations.Up(ctx, db)
			}, retry.DefaultConfig())
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("Migrations applied")
			return nil
		},
	})
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, tgClient telegram.Client,
	feedClient feed.Client, storyClient storyservice.Client, cmdClient command.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           healthMux(log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, server)

			if err := feedClient.WatchEvents(ctx); err != nil {
				log.Error("Watch story events error", "Error", err)
				tgClient.SendMessageToUser("Watch story events error: " + err.Error())
			}

			if err := feedClient.ScheduleRefresh(ctx); err != nil {
				log.Error("Schedule feed refresh error", "Error", err)
				tgClient.SendMessageToUser("Schedule feed refresh error: " + err.Error())
			}

			if err := storyClient.ScheduleCleanup(ctx); err != nil {
				log.Error("Schedule story cleanup error", "Error", err)
				tgClient.SendMessageToUser("Schedule story cleanup error: " + err.Error())
			}

			go func() {
				for ctx.Err() == nil {
					if err := cmdClient.HandleCommand(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Error("Command error", "Error", err)
						tgClient.SendMessageToUser("Command error: " + err.Error())
						time.Sleep(time.Second)
					}
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return server.Shutdown(stopCtx)
		},
	})
}

func startHttpServer(log logger.Logger, server *http.Server) {
	log.Info(fmt.Sprintf("Starting server on %s", server.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed to start", "Error", err)
	}
}

func healthMux(log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})
	return mux
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Debug("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
