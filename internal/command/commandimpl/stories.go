package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/orgball2608/story-viewer-bot/internal/viewer"
	"github.com/orgball2608/story-viewer-bot/pkg/formatter"
)

// maxListed caps the buttons in a /stories reply.
const maxListed = 20

const (
	signInToPost = "🔒 Sign in with /register <username> to post stories."
	couldNotLoad = "❌ Could not load stories right now, try again later."
)

func (c *CommandImpl) handleStories(ctx context.Context, chatID int64) error {
	v, err := c.Auth.Resolve(ctx, chatID)
	if err != nil {
		return fmt.Errorf("resolve chat %d: %w", chatID, err)
	}
	stories, err := c.Feed.Stories(ctx, v)
	if err != nil {
		c.reply(chatID, couldNotLoad)
		return fmt.Errorf("load feed: %w", err)
	}
	if len(stories) == 0 {
		_, err = c.Telegram.SendMessage(chatID, "No active stories right now. Post one with /poststory.")
		return err
	}

	now := time.Now()
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, st := range stories {
		if i == maxListed {
			break
		}
		data := viewer.CallbackData{Action: viewer.ActionOpen, StoryID: st.ID}.Encode()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(storyLabel(i, st, now), data),
		))
	}

	text := fmt.Sprintf("📚 %d active stories. Pick one to start watching:", len(stories))
	_, err = c.Telegram.SendMessageWithKeyboard(chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
	return err
}

func storyLabel(i int, st domain.Story, now time.Time) string {
	marker := "🟣"
	if st.ViewerHasViewed {
		marker = "⚪️"
	}
	label := fmt.Sprintf("%s %d. @%s · %s", marker, i+1, st.OwnerDisplayName, formatter.TimeAgo(st.CreatedAt, now))
	if st.IsLive() {
		label += " · 🔴 LIVE"
	}
	return label
}

func (c *CommandImpl) handleView(ctx context.Context, chatID int64, args string) error {
	n := 1
	if args != "" {
		var err error
		n, err = strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			_, err = c.Telegram.SendMessage(chatID, "Usage: /view [number], for example /view 2")
			return err
		}
	}
	return c.openFeed(ctx, chatID, n-1)
}

// openFeed starts the chat's viewer over the feed at index.
func (c *CommandImpl) openFeed(ctx context.Context, chatID int64, index int) error {
	stories, err := c.loadFeed(ctx, chatID)
	if err != nil {
		return err
	}
	return c.open(chatID, stories, index)
}

// openStory starts the chat's viewer at the story with the given ID, wherever
// it sits in the current feed.
func (c *CommandImpl) openStory(ctx context.Context, chatID int64, storyID string) error {
	stories, err := c.loadFeed(ctx, chatID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(stories, func(st domain.Story) bool { return st.ID == storyID })
	if i < 0 {
		_, err = c.Telegram.SendMessage(chatID, "That story is no longer available. /stories lists what's active now.")
		return err
	}
	return c.open(chatID, stories, i)
}

func (c *CommandImpl) loadFeed(ctx context.Context, chatID int64) ([]domain.Story, error) {
	v, err := c.Auth.Resolve(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("resolve chat %d: %w", chatID, err)
	}
	stories, err := c.Feed.Stories(ctx, v)
	if err != nil {
		c.reply(chatID, couldNotLoad)
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return stories, nil
}

func (c *CommandImpl) open(chatID int64, stories []domain.Story, index int) error {
	_, err := c.Viewers.Open(chatID, stories, index)
	switch {
	case errors.Is(err, playback.ErrInvalidIndex) && len(stories) == 0:
		_, err = c.Telegram.SendMessage(chatID, "No active stories right now.")
		return err
	case errors.Is(err, playback.ErrInvalidIndex):
		_, err = c.Telegram.SendMessage(chatID, fmt.Sprintf("There is no story #%d. /stories lists what's available.", index+1))
		return err
	case err != nil:
		return fmt.Errorf("open viewer: %w", err)
	}
	return nil
}

func (c *CommandImpl) handleMyStories(ctx context.Context, chatID int64) error {
	v, err := c.Auth.Resolve(ctx, chatID)
	if err != nil {
		return fmt.Errorf("resolve chat %d: %w", chatID, err)
	}
	if v.IsAnonymous() {
		_, err = c.Telegram.SendMessage(chatID, "🔒 Sign in with /register <username> to see your stories.")
		return err
	}

	stories, err := c.Stories.ListByOwner(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("list stories of %s: %w", v.ID, err)
	}
	if len(stories) == 0 {
		_, err = c.Telegram.SendMessage(chatID, "You have no active stories. Send a photo with the caption /poststory.")
		return err
	}

	now := time.Now()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your stories (%d):\n", len(stories))
	for i, st := range stories {
		fmt.Fprintf(&sb, "\n%d. %s · 👁 %s · ❤️ %s", i+1,
			formatter.TimeAgo(st.CreatedAt, now),
			formatter.FormatNumber(st.ViewCount),
			formatter.FormatNumber(st.LikeCount),
		)
		if st.IsLive() {
			sb.WriteString(" · 🔴 LIVE")
		}
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("▶️ Play", viewer.CallbackData{Action: viewer.ActionMine}.Encode()),
	))
	_, err = c.Telegram.SendMessageWithKeyboard(chatID, sb.String(), kb)
	return err
}

func (c *CommandImpl) openMine(ctx context.Context, chatID int64) error {
	v, err := c.Auth.Resolve(ctx, chatID)
	if err != nil {
		return fmt.Errorf("resolve chat %d: %w", chatID, err)
	}
	if v.IsAnonymous() {
		_, err = c.Telegram.SendMessage(chatID, "🔒 Sign in with /register <username> to see your stories.")
		return err
	}
	stories, err := c.Stories.ListByOwner(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("list stories of %s: %w", v.ID, err)
	}
	return c.open(chatID, stories, 0)
}

// handlePostStory uploads the photo attached to the message, or to the message
// it replies to.
func (c *CommandImpl) handlePostStory(ctx context.Context, msg *tgbotapi.Message, args string) error {
	chatID := msg.Chat.ID

	photo := msg.Photo
	if len(photo) == 0 && msg.ReplyToMessage != nil {
		photo = msg.ReplyToMessage.Photo
	}
	if len(photo) == 0 {
		_, err := c.Telegram.SendMessage(chatID, "Send a photo with the caption /poststory, or reply /poststory to a photo.")
		return err
	}

	v, err := c.Auth.Resolve(ctx, chatID)
	if err != nil {
		return fmt.Errorf("resolve chat %d: %w", chatID, err)
	}
	if v.IsAnonymous() {
		_, err = c.Telegram.SendMessage(chatID, signInToPost)
		return err
	}

	kind := domain.StoryKindEphemeral
	if strings.EqualFold(strings.TrimSpace(args), "live") {
		kind = domain.StoryKindLiveOrigin
	}

	// Telegram lists sizes smallest first.
	largest := photo[len(photo)-1]
	st, err := c.Stories.Create(ctx, v, telegram.FileIDURL(largest.FileID), kind)
	if err != nil {
		c.reply(chatID, "❌ Could not post your story, try again later.")
		return fmt.Errorf("create story: %w", err)
	}

	text := fmt.Sprintf("✅ Story posted. It disappears %s.", expiryText(st.ExpiresAt, time.Now()))
	_, err = c.Telegram.SendMessage(chatID, text)
	return err
}

func expiryText(at, now time.Time) string {
	if at.IsZero() {
		return "later"
	}
	h := int(at.Sub(now).Round(time.Hour) / time.Hour)
	if h <= 1 {
		return "within the hour"
	}
	return fmt.Sprintf("in %dh", h)
}
