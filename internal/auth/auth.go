package auth

import (
	"context"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
)

var (
	ErrInvalidUsername   = apperrors.Wrap(apperrors.ErrInvalidInput, "username must be 3-32 letters, digits or underscores")
	ErrUsernameTaken     = apperrors.Wrap(apperrors.ErrBadRequest, "username is taken")
	ErrAlreadyRegistered = apperrors.Wrap(apperrors.ErrBadRequest, "chat already has an account")
	ErrNotRegistered     = apperrors.Wrap(apperrors.ErrNotFound, "chat has no account")
)

//go:generate go run go.uber.org/mock/mockgen -source=auth.go -destination=mocks/mock.go

type Client interface {
	Register(ctx context.Context, chatID int64, username string) (*domain.Account, error)
	Logout(ctx context.Context, chatID int64) error

	// Resolve returns the viewer bound to chatID, or domain.Anonymous.
	Resolve(ctx context.Context, chatID int64) (domain.Viewer, error)

	// ContextFor returns an auth context that follows later Register and Logout
	// calls for chatID.
	ContextFor(chatID int64) playback.Auth
}
