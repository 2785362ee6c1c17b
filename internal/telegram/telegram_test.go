package telegram_test

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/stretchr/testify/assert"
)

func TestRequestFile(t *testing.T) {
	assert.Equal(t, tgbotapi.FileID("AgACAgIAAxk"), telegram.RequestFile(telegram.FileIDURL("AgACAgIAAxk")))
	assert.Equal(t, tgbotapi.FileURL("https://cdn.example.com/a.jpg"), telegram.RequestFile("https://cdn.example.com/a.jpg"))
}
