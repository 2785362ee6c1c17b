package account

import (
	"context"
	"errors"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("account already exists")
	ErrNotFound      = errors.New("account not found")
	ErrCannotCreate  = errors.New("error create account")
)

//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, acc domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByChatID(ctx context.Context, chatID int64) (*domain.Account, error)
	DeleteByChatID(ctx context.Context, chatID int64) error
}
