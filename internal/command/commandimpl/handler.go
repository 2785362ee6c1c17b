package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `👋 Welcome to Stories!

Watch:
/stories - List active stories.
/view [n] - Watch stories starting at number n.
/mystories - See your own stories with view and like counts.
/close - Close the viewer.

Post:
Send a photo with the caption /poststory to share it for 24 hours.
Add "live" after the command to mark it as a live story.

Account:
/register <username> - Sign in to like, reply and post.
/whoami - Show who you are signed in as.
/logout - Sign out of this chat.

While a reply is open, your next message goes to the story owner. /cancel drops it.`

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}
			go c.handleUpdate(ctx, update)
		}
	}
}

func (c *CommandImpl) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if u.CallbackQuery != nil {
		c.handleCallback(ctx, u.CallbackQuery)
		return
	}

	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	command, args, ok := parseCommand(msg)
	if !ok {
		if err := c.handleText(ctx, msg); err != nil {
			c.Logger.Error("Error processing message", "chat_id", msg.Chat.ID, "error", err)
		}
		return
	}

	c.Logger.Info("Command received", "chat_id", msg.Chat.ID, "command", command)
	if err := c.processCommand(ctx, msg, command, args); err != nil {
		c.Logger.Error("Error processing command", "command", command, "error", err)
	}
}

// parseCommand reads a bot command from the message text, or from the caption
// of a photo.
func parseCommand(msg *tgbotapi.Message) (command, args string, ok bool) {
	if msg.IsCommand() {
		return msg.Command(), msg.CommandArguments(), true
	}
	if len(msg.Photo) == 0 || !strings.HasPrefix(msg.Caption, "/") {
		return "", "", false
	}

	head, rest, _ := strings.Cut(msg.Caption, " ")
	head = strings.TrimPrefix(head, "/")
	// Drop the @botname suffix used in groups.
	head, _, _ = strings.Cut(head, "@")
	return head, strings.TrimSpace(rest), head != ""
}

func (c *CommandImpl) processCommand(ctx context.Context, msg *tgbotapi.Message, command, args string) error {
	chatID := msg.Chat.ID

	switch command {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "register":
		return c.handleRegister(ctx, chatID, args)
	case "logout":
		return c.handleLogout(ctx, chatID)
	case "whoami":
		return c.handleWhoami(ctx, chatID)
	case "stories":
		return c.handleStories(ctx, chatID)
	case "view":
		return c.handleView(ctx, chatID, args)
	case "mystories":
		return c.handleMyStories(ctx, chatID)
	case "poststory":
		return c.handlePostStory(ctx, msg, args)
	case "cancel":
		return c.handleCancel(chatID)
	case "close":
		return c.handleClose(chatID)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}
