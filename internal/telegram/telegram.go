package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FileIDPrefix marks a media URL that points at a file already stored by
// Telegram.
const FileIDPrefix = "tg://file/"

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go

type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	SendMessageWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error)
	SendPhoto(chatID int64, mediaURL, caption string, kb *tgbotapi.InlineKeyboardMarkup) (int, error)
	EditPhoto(chatID int64, messageID int, mediaURL, caption string, kb *tgbotapi.InlineKeyboardMarkup) error
	EditCaption(chatID int64, messageID int, caption string, kb *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID, text string) error

	SendMessageToUser(text string)
}

func FileIDURL(fileID string) string {
	return FileIDPrefix + fileID
}

// RequestFile turns a story media URL into something the Bot API can send.
func RequestFile(mediaURL string) tgbotapi.RequestFileData {
	if id, ok := strings.CutPrefix(mediaURL, FileIDPrefix); ok {
		return tgbotapi.FileID(id)
	}
	return tgbotapi.FileURL(mediaURL)
}
