package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatNumber converts an integer to a string with commas as thousands separators.
// Example: 1234567 -> "1,234,567"
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		s = s[1:]
	}

	le := len(s)
	if le <= 3 {
		if n < 0 {
			return "-" + s
		}
		return s
	}

	sepCount := (le - 1) / 3

	res := make([]byte, le+sepCount)

	j := len(res) - 1
	for i := le - 1; i >= 0; i-- {
		res[j] = s[i]
		j--
		if (le-i)%3 == 0 && i > 0 {
			res[j] = ','
			j--
		}
	}

	if n < 0 {
		return "-" + string(res)
	}
	return string(res)
}

// EscapeMarkdownV2 escapes special characters in Markdown V2 format
func EscapeMarkdownV2(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ProgressBar renders one segment per story, each segment cells wide.
// percents holds the fill of every segment in [0,100].
// Example: ProgressBar([]float64{100, 50, 0}, 2) -> "▰▰ ▰▱ ▱▱"
func ProgressBar(percents []float64, cells int) string {
	if cells < 1 {
		cells = 1
	}

	var sb strings.Builder
	for i, p := range percents {
		if i > 0 {
			sb.WriteRune(' ')
		}
		filled := int(p / 100 * float64(cells))
		if filled > cells {
			filled = cells
		}
		if filled < 0 {
			filled = 0
		}
		sb.WriteString(strings.Repeat("▰", filled))
		sb.WriteString(strings.Repeat("▱", cells-filled))
	}
	return sb.String()
}

// TimeAgo returns a short human readable age such as "just now", "5m ago" or "2h ago".
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
