package commandimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgball2608/story-viewer-bot/internal/auth"
)

func (c *CommandImpl) handleRegister(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a username: /register <username>")
		return err
	}

	acc, err := c.Auth.Register(ctx, chatID, args)
	switch {
	case errors.Is(err, auth.ErrInvalidUsername):
		_, err = c.Telegram.SendMessage(chatID, "❌ Usernames are 3 to 32 letters, digits or underscores.")
		return err
	case errors.Is(err, auth.ErrUsernameTaken):
		_, err = c.Telegram.SendMessage(chatID, "❌ That username is taken, try another one.")
		return err
	case errors.Is(err, auth.ErrAlreadyRegistered):
		_, err = c.Telegram.SendMessage(chatID, "You are already signed in. /logout first to switch accounts.")
		return err
	case err != nil:
		c.reply(chatID, "❌ Could not sign you in right now, try again later.")
		return fmt.Errorf("register chat %d: %w", chatID, err)
	}

	_, err = c.Telegram.SendMessage(chatID, fmt.Sprintf("✅ Signed in as @%s. Open /stories to start watching.", acc.Username))
	return err
}

func (c *CommandImpl) handleLogout(ctx context.Context, chatID int64) error {
	err := c.Auth.Logout(ctx, chatID)
	switch {
	case errors.Is(err, auth.ErrNotRegistered):
		_, err = c.Telegram.SendMessage(chatID, "You are not signed in.")
		return err
	case err != nil:
		return fmt.Errorf("logout chat %d: %w", chatID, err)
	}

	_, err = c.Telegram.SendMessage(chatID, "👋 Signed out. You can keep watching anonymously.")
	return err
}

func (c *CommandImpl) handleWhoami(ctx context.Context, chatID int64) error {
	v, err := c.Auth.Resolve(ctx, chatID)
	if err != nil {
		return fmt.Errorf("resolve chat %d: %w", chatID, err)
	}

	text := "You are watching anonymously. /register <username> to sign in."
	if !v.IsAnonymous() {
		text = fmt.Sprintf("Signed in as @%s.", v.Username)
	}
	_, err = c.Telegram.SendMessage(chatID, text)
	return err
}
