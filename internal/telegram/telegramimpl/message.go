package telegramimpl

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
)

// SendMessage sends a plain text message to a specific chat ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	sent, err := tg.send("SendMessage", tgbotapi.NewMessage(chatID, text))
	if err != nil {
		tg.Logger.Error("Error sending message", "chatID", chatID, "error", err)
		return 0, wrap("send message", err)
	}
	return sent.MessageID, nil
}

func (tg *TelegramImpl) SendMessageWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	sent, err := tg.send("SendMessageWithKeyboard", msg)
	if err != nil {
		tg.Logger.Error("Error sending message", "chatID", chatID, "error", err)
		return 0, wrap("send message", err)
	}
	return sent.MessageID, nil
}

// SendPhoto sends a story image with a MarkdownV2 caption
func (tg *TelegramImpl) SendPhoto(chatID int64, mediaURL, caption string, kb *tgbotapi.InlineKeyboardMarkup) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, telegram.RequestFile(mediaURL))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdownV2
	if kb != nil {
		photo.ReplyMarkup = kb
	}

	sent, err := tg.send("SendPhoto", photo)
	if err != nil {
		tg.Logger.Error("Error sending photo", "chatID", chatID, "error", err)
		return 0, wrap("send photo", err)
	}
	return sent.MessageID, nil
}

// EditPhoto swaps the image of an existing story message
func (tg *TelegramImpl) EditPhoto(chatID int64, messageID int, mediaURL, caption string, kb *tgbotapi.InlineKeyboardMarkup) error {
	media := tgbotapi.NewInputMediaPhoto(telegram.RequestFile(mediaURL))
	media.Caption = caption
	media.ParseMode = tgbotapi.ModeMarkdownV2

	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:      chatID,
			MessageID:   messageID,
			ReplyMarkup: kb,
		},
		Media: media,
	}
	return tg.ignoreNotModified(wrap("edit photo", tg.request("EditPhoto", edit)))
}

func (tg *TelegramImpl) EditCaption(chatID int64, messageID int, caption string, kb *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, caption)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.ReplyMarkup = kb
	return tg.ignoreNotModified(wrap("edit caption", tg.request("EditCaption", edit)))
}

func (tg *TelegramImpl) DeleteMessage(chatID int64, messageID int) error {
	return wrap("delete message", tg.request("DeleteMessage", tgbotapi.NewDeleteMessage(chatID, messageID)))
}

// AnswerCallback removes the loading animation on the pressed button
func (tg *TelegramImpl) AnswerCallback(callbackID, text string) error {
	return wrap("answer callback", tg.request("AnswerCallback", tgbotapi.NewCallback(callbackID, text)))
}

// SendMessageToUser sends a text message to the configured admin user
func (tg *TelegramImpl) SendMessageToUser(text string) {
	if tg.Config.Telegram.User == 0 {
		return
	}
	if _, err := tg.send("SendMessageToUser", tgbotapi.NewMessage(tg.Config.Telegram.User, text)); err != nil {
		tg.Logger.Error("Error sending message to user", "userID", tg.Config.Telegram.User, "error", err)
	}
}

func (tg *TelegramImpl) ignoreNotModified(err error) error {
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}
