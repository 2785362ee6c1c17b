package storyservice

import (
	"context"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
)

var (
	ErrLoginRequired = apperrors.WrapWithCode(apperrors.ErrUnauthorized, apperrors.CodeUnauthorized, "login required")
	ErrNotOwner      = apperrors.WrapWithCode(apperrors.ErrUnauthorized, apperrors.CodeUnauthorized, "only the owner can delete a story")
	ErrEmptyMedia    = apperrors.Wrap(apperrors.ErrInvalidInput, "story needs an image")
	ErrNotFound      = apperrors.Wrap(apperrors.ErrNotFound, "story not found")
)

//go:generate go run go.uber.org/mock/mockgen -source=storyservice.go -destination=mocks/mock.go

type Client interface {
	ListActive(ctx context.Context, viewer domain.Viewer) ([]domain.Story, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Story, error)
	Create(ctx context.Context, owner domain.Viewer, mediaURL string, kind domain.StoryKind) (*domain.Story, error)

	RecordView(ctx context.Context, storyID, viewerID string) error
	SetLike(ctx context.Context, storyID, viewerID string, liked bool) error
	DeleteStory(ctx context.Context, storyID, viewerID string) error

	// CleanupExpired removes stories that expired more than grace ago.
	CleanupExpired(ctx context.Context, grace time.Duration) (int64, error)
	ScheduleCleanup(ctx context.Context) error
}
