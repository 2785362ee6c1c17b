package domain

import "time"

// Account binds a registered username to a Telegram chat.
type Account struct {
	ID        string
	ChatID    int64
	Username  string
	CreatedAt time.Time
}

// Viewer is the identity a story viewer acts as. The zero value is anonymous.
type Viewer struct {
	ID       string
	Username string
	ChatID   int64
}

var Anonymous = Viewer{}

func (v Viewer) IsAnonymous() bool {
	return v.ID == ""
}

func (a Account) Viewer() Viewer {
	return Viewer{
		ID:       a.ID,
		Username: a.Username,
		ChatID:   a.ChatID,
	}
}
