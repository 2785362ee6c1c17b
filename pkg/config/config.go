package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
		User     int64  `env:"TELEGRAM_USER" env-description:"chat that receives startup errors"`
	}
	Nats struct {
		Url           string `env:"NATS_URL" env-description:"empty disables story events"`
		SubjectPrefix string `env:"NATS_SUBJECT_PREFIX" env-default:"story"`
	}
	Playback struct {
		StoryDuration time.Duration `env:"PLAYBACK_STORY_DURATION" env-default:"5s"`
		TickInterval  time.Duration `env:"PLAYBACK_TICK_INTERVAL" env-default:"50ms"`
		Workers       int           `env:"PLAYBACK_WORKERS" env-default:"32"`
		CallTimeout   time.Duration `env:"PLAYBACK_CALL_TIMEOUT" env-default:"10s"`
		// RenderInterval is how often a playing viewer refreshes its caption.
		RenderInterval time.Duration `env:"PLAYBACK_RENDER_INTERVAL" env-default:"1s"`
	}
	Feed struct {
		RefreshInterval time.Duration `env:"FEED_REFRESH_INTERVAL" env-default:"2m"`
		StoryTTL        time.Duration `env:"FEED_STORY_TTL" env-default:"24h"`
		Size            int           `env:"FEED_SIZE" env-default:"50"`
		CleanupAfter    time.Duration `env:"FEED_CLEANUP_AFTER" env-default:"120h"`
	}
	Reply struct {
		Requests int           `env:"REPLY_REQUESTS" env-default:"1"`
		Per      time.Duration `env:"REPLY_PER" env-default:"5s"`
		Burst    int           `env:"REPLY_BURST" env-default:"3"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the lib/pq style connection string used by migrations.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// GetURL returns the postgres:// connection string used by pgxpool.
func (c *Config) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
