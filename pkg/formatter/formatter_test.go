package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `cyber\_creator\!`, EscapeMarkdownV2("cyber_creator!"))
	assert.Equal(t, "plain", EscapeMarkdownV2("plain"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▰▰ ▰▱ ▱▱", ProgressBar([]float64{100, 50, 0}, 2))
	assert.Equal(t, "▰", ProgressBar([]float64{250}, 0))
	assert.Equal(t, "", ProgressBar(nil, 4))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", TimeAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", TimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2h ago", TimeAgo(now.Add(-2*time.Hour), now))
	assert.Equal(t, "3d ago", TimeAgo(now.Add(-72*time.Hour), now))
}
