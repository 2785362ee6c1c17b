package telegramimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"github.com/orgball2608/story-viewer-bot/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot  *tgbotapi.BotAPI
	Logger logger.Logger
	Config *config.Config
	retry  retry.Config
}

func New(opts Opts) (*TelegramImpl, error) {
	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.BotToken)
	if err != nil {
		opts.Logger.Error("Error creating bot", "error", err)
		return nil, err
	}

	log := opts.Logger.WithComponent("Telegram")
	log.Info("Authorized on Telegram", "bot", tgBot.Self.UserName)

	return &TelegramImpl{
		TgBot:  tgBot,
		Logger: log,
		Config: opts.Config,
		retry: retry.Config{
			MaxRetries:      2,
			InitialInterval: 300 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2,
		},
	}, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return tg.TgBot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	tg.TgBot.StopReceivingUpdates()
}

// send retries transport failures. Errors reported by the Bot API itself are
// returned at once.
func (tg *TelegramImpl) send(name string, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	var msg tgbotapi.Message
	err := retry.Do(context.Background(), tg.Logger, name, func() error {
		var err error
		msg, err = tg.TgBot.Send(c)
		return permanentIfAPI(err)
	}, tg.retry)
	return msg, err
}

func (tg *TelegramImpl) request(name string, c tgbotapi.Chattable) error {
	return retry.Do(context.Background(), tg.Logger, name, func() error {
		_, err := tg.TgBot.Request(c)
		return permanentIfAPI(err)
	}, tg.retry)
}

func permanentIfAPI(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return backoff.Permanent(err)
	}
	return err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
