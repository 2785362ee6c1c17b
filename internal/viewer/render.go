package viewer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	"github.com/orgball2608/story-viewer-bot/pkg/formatter"
)

// Callback actions carried in inline button data.
const (
	ActionPrev   = "prev"
	ActionToggle = "toggle"
	ActionNext   = "next"
	ActionLike   = "like"
	ActionReply  = "reply"
	ActionCancel = "cancel"
	ActionDelete = "delete"
	ActionClose  = "close"
	ActionOpen   = "open"
	ActionMine   = "mine"
)

// barWidth is the total number of progress cells shared by all segments.
const barWidth = 20

// CallbackData is the payload of every viewer button. Telegram caps it at 64
// bytes, so the keys are short. Open buttons name the story by ID since the
// feed can reorder between listing and tapping.
type CallbackData struct {
	Action    string `json:"a"`
	SessionID string `json:"s,omitempty"`
	Index     int    `json:"i,omitempty"`
	StoryID   string `json:"t,omitempty"`
}

func (d CallbackData) Encode() string {
	b, _ := json.Marshal(d)
	return string(b)
}

func DecodeCallback(data string) (CallbackData, error) {
	var d CallbackData
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return CallbackData{}, fmt.Errorf("decode callback data: %w", err)
	}
	if d.Action == "" {
		return CallbackData{}, fmt.Errorf("decode callback data: missing action")
	}
	return d, nil
}

// Caption renders a snapshot as a MarkdownV2 photo caption.
func Caption(snap playback.Snapshot, now time.Time) string {
	if snap.State == playback.StateClosed {
		return closedCaption(snap.Reason)
	}

	st := snap.Story
	cells := barWidth / max(snap.Total, 1)

	var sb strings.Builder
	sb.WriteString(formatter.EscapeMarkdownV2(formatter.ProgressBar(snap.Progress(), max(cells, 1))))
	sb.WriteString("\n\n")

	owner := st.OwnerDisplayName
	if owner == "" {
		owner = "unknown"
	}
	fmt.Fprintf(&sb, "*@%s* · %s", formatter.EscapeMarkdownV2(owner), formatter.EscapeMarkdownV2(formatter.TimeAgo(st.CreatedAt, now)))
	if st.IsLive() {
		sb.WriteString(" · 🔴 *LIVE*")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "❤️ %s · 👁 %s · %d/%d",
		formatter.EscapeMarkdownV2(formatter.FormatNumber(st.LikeCount)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(st.ViewCount)),
		snap.Index+1, snap.Total,
	)

	switch {
	case snap.Drafting:
		sb.WriteString("\n\n✍️ _Replying, send your message or /cancel_")
	case snap.State == playback.StatePaused:
		sb.WriteString("\n\n⏸ _Paused_")
	}
	return sb.String()
}

func closedCaption(reason playback.CloseReason) string {
	switch reason {
	case playback.CloseReasonFinished:
		return "✅ You're all caught up"
	case playback.CloseReasonDeleted:
		return "🗑 Story deleted"
	default:
		return "👋 Viewer closed"
	}
}

// Keyboard returns the controls for snap as seen by viewerID, or nil once the
// session is closed. Delete is offered to the story owner only.
func Keyboard(snap playback.Snapshot, viewerID string) *tgbotapi.InlineKeyboardMarkup {
	if snap.State == playback.StateClosed {
		return nil
	}

	button := func(text, action string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(text, CallbackData{Action: action, SessionID: snap.SessionID}.Encode())
	}

	toggle := button("⏸", ActionToggle)
	if snap.State == playback.StatePaused {
		toggle = button("▶️", ActionToggle)
	}

	like := "🤍 " + formatter.FormatNumber(snap.Story.LikeCount)
	if snap.Story.ViewerHasLiked {
		like = "❤️ " + formatter.FormatNumber(snap.Story.LikeCount)
	}

	reply := button("💬 Reply", ActionReply)
	if snap.Drafting {
		reply = button("✖️ Cancel reply", ActionCancel)
	}

	second := []tgbotapi.InlineKeyboardButton{button(like, ActionLike), reply}
	if viewerID != "" && snap.Story.OwnerID == viewerID {
		second = append(second, button("🗑", ActionDelete))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("⏮", ActionPrev), toggle, button("⏭", ActionNext)),
		second,
		tgbotapi.NewInlineKeyboardRow(button("✖️ Close", ActionClose)),
	)
	return &kb
}
