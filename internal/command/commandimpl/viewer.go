package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/story-viewer-bot/internal/messaging"
	"github.com/orgball2608/story-viewer-bot/internal/viewer"
)

const noViewer = "This viewer is no longer active"

func (c *CommandImpl) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	answer := func(text string) {
		if err := c.Telegram.AnswerCallback(cq.ID, text); err != nil {
			c.Logger.Warn("Callback not answered", "error", err)
		}
	}

	if cq.Message == nil || cq.Message.Chat == nil {
		answer("")
		return
	}
	chatID := cq.Message.Chat.ID

	data, err := viewer.DecodeCallback(cq.Data)
	if err != nil {
		c.Logger.Error("Failed to decode callback data", "error", err)
		answer("")
		return
	}

	switch data.Action {
	case viewer.ActionOpen:
		answer("")
		if data.StoryID != "" {
			err = c.openStory(ctx, chatID, data.StoryID)
		} else {
			err = c.openFeed(ctx, chatID, data.Index)
		}
	case viewer.ActionMine:
		answer("")
		err = c.openMine(ctx, chatID)
	default:
		v, ok := c.Viewers.Get(chatID)
		if !ok {
			answer(noViewer)
			return
		}
		var text string
		text, err = v.Handle(ctx, data)
		answer(text)
	}
	if err != nil {
		c.Logger.Error("Error handling callback", "action", data.Action, "error", err)
	}
}

// handleText routes a plain message to an open reply draft.
func (c *CommandImpl) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	v, ok := c.Viewers.Get(chatID)
	if !ok || !v.Drafting() || msg.Text == "" {
		return nil
	}

	if strings.TrimSpace(msg.Text) == "" {
		return c.handleCancel(chatID)
	}

	owner := v.Session().Snapshot().Story.OwnerDisplayName
	err := v.SendReply(ctx, msg.Text)
	switch {
	case errors.Is(err, messaging.ErrRateLimited):
		_, err = c.Telegram.SendMessage(chatID, "⏳ You are replying too fast. Wait a moment and send it again.")
		return err
	case errors.Is(err, messaging.ErrTooLong):
		_, err = c.Telegram.SendMessage(chatID, "✂️ That reply is too long. Shorten it and send it again.")
		return err
	case err != nil:
		c.reply(chatID, "❌ Reply not sent. Your draft is still open, send it again or /cancel.")
		return fmt.Errorf("send reply: %w", err)
	case v.Drafting():
		// The viewer signed out meanwhile and has been told to sign in again.
		return nil
	}

	_, err = c.Telegram.SendMessage(chatID, fmt.Sprintf("✅ Reply sent to @%s.", owner))
	return err
}

func (c *CommandImpl) handleCancel(chatID int64) error {
	v, ok := c.Viewers.Get(chatID)
	if !ok || !v.Drafting() {
		_, err := c.Telegram.SendMessage(chatID, "Nothing to cancel.")
		return err
	}
	v.Session().CancelReply()
	_, err := c.Telegram.SendMessage(chatID, "Reply cancelled.")
	return err
}

func (c *CommandImpl) handleClose(chatID int64) error {
	if c.Viewers.Close(chatID) {
		return nil
	}
	_, err := c.Telegram.SendMessage(chatID, "No viewer is open. /stories to pick one.")
	return err
}
