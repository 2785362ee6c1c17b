package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/internal/telegram"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
)

// View shows one playback session in a chat as a single photo message that is
// edited in place.
type View struct {
	chatID   int64
	session  *playback.Session
	auth     playback.Auth
	tg       telegram.Client
	clock    clockwork.Clock
	interval time.Duration
	logger   logger.Logger

	wake chan struct{}

	mu      sync.Mutex
	notices []string

	// owned by the render loop
	messageID int
	shownID   string
	shownKey  string
}

var _ playback.Listener = (*View)(nil)

func (v *View) Session() *playback.Session {
	return v.session
}

func (v *View) ChatID() int64 {
	return v.chatID
}

func (v *View) HandleEvent(e playback.Event) {
	switch e.Type {
	case playback.EventLoginRequired:
		v.notify(loginNotice(e.Action))
	case playback.EventReplyStarted:
		v.notify(fmt.Sprintf("✍️ Type your reply to @%s and send it. /cancel to stop.", e.Snapshot.Story.OwnerDisplayName))
	}

	select {
	case v.wake <- struct{}{}:
	default:
	}
}

func loginNotice(a playback.Action) string {
	verb := string(a)
	if a == playback.ActionReply {
		verb = "reply to"
	}
	return fmt.Sprintf("🔒 Sign in with /register <username> to %s stories.", verb)
}

func (v *View) notify(text string) {
	v.mu.Lock()
	v.notices = append(v.notices, text)
	v.mu.Unlock()
}

func (v *View) takeNotices() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.notices
	v.notices = nil
	return out
}

// Handle applies a button press and returns the text for the callback answer.
func (v *View) Handle(ctx context.Context, data CallbackData) (string, error) {
	s := v.session
	if data.SessionID != s.ID() {
		return "This viewer is no longer active", nil
	}

	switch data.Action {
	case ActionPrev:
		s.Previous()
	case ActionNext:
		s.Next()
	case ActionToggle:
		if s.Snapshot().State == playback.StatePaused {
			s.Resume()
		} else {
			s.Pause()
		}
	case ActionLike:
		s.ToggleLike()
	case ActionReply:
		s.StartReply()
	case ActionCancel:
		s.CancelReply()
	case ActionClose:
		s.Close()
	case ActionDelete:
		err := s.DeleteStory(ctx)
		switch {
		case errors.Is(err, playback.ErrUnauthorized):
			return "Only the owner can delete this story", nil
		case errors.Is(err, playback.ErrClosed):
			return "This viewer is no longer active", nil
		case err != nil:
			return "Could not delete the story, try again", err
		}
		return "Story deleted", nil
	default:
		return "", fmt.Errorf("unknown viewer action %q", data.Action)
	}
	return "", nil
}

// Drafting reports whether the next text message in the chat is a reply.
func (v *View) Drafting() bool {
	return v.session.Snapshot().Drafting
}

func (v *View) SendReply(ctx context.Context, text string) error {
	return v.session.SendReply(ctx, text)
}

func (v *View) loop(ctx context.Context) {
	ticker := v.clock.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		if closed := v.render(); closed {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-v.wake:
		case <-ticker.Chan():
		}
	}
}

// render brings the chat message in line with the session. It reports whether
// the session is closed and the final frame has been handled.
func (v *View) render() bool {
	for _, n := range v.takeNotices() {
		if _, err := v.tg.SendMessage(v.chatID, n); err != nil {
			v.logger.Warn("Viewer notice not sent", "error", err)
		}
	}

	snap := v.session.Snapshot()
	closed := snap.State == playback.StateClosed
	caption := Caption(snap, v.clock.Now())
	kb := Keyboard(snap, v.auth.Viewer().ID)
	key := caption + markupKey(kb)

	var err error
	switch {
	case v.messageID == 0:
		if closed {
			return true
		}
		var id int
		id, err = v.tg.SendPhoto(v.chatID, snap.Story.MediaURL, caption, kb)
		if err == nil {
			v.messageID = id
			v.displayed(snap.Story, key)
		}
	case !closed && snap.Story.ID != v.shownID:
		err = v.tg.EditPhoto(v.chatID, v.messageID, snap.Story.MediaURL, caption, kb)
		if err == nil {
			v.displayed(snap.Story, key)
		}
	case key != v.shownKey:
		err = v.tg.EditCaption(v.chatID, v.messageID, caption, kb)
		if err == nil {
			v.shownKey = key
		}
	}
	if err != nil {
		v.logger.Warn("Viewer render failed", "story_id", snap.Story.ID, "error", err)
	}
	return closed
}

func (v *View) displayed(st domain.Story, key string) {
	v.shownID = st.ID
	v.shownKey = key
	v.session.RecordView()
}

func markupKey(kb *tgbotapi.InlineKeyboardMarkup) string {
	if kb == nil {
		return ""
	}
	b, _ := json.Marshal(kb)
	return string(b)
}
