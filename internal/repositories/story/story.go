package story

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/story-viewer-bot/internal/domain"
)

var (
	ErrNotFound     = errors.New("story not found")
	ErrCannotCreate = errors.New("error create story")
)

//go:generate go run go.uber.org/mock/mockgen -source=story.go -destination=mocks/mock.go

type Repository interface {
	Create(ctx context.Context, story domain.Story) error
	GetByID(ctx context.Context, id string) (*domain.Story, error)

	// ListActive returns stories not yet expired at now, newest first, with the
	// viewer flags filled for viewerID. An empty viewerID leaves them false.
	ListActive(ctx context.Context, viewerID string, now time.Time, limit int) ([]domain.Story, error)
	ListByOwner(ctx context.Context, ownerID string, now time.Time) ([]domain.Story, error)

	// AddView records that viewerID saw the story and returns the new view count.
	// Repeated views by the same viewer are not counted twice.
	AddView(ctx context.Context, storyID, viewerID string) (int, error)
	SetLike(ctx context.Context, storyID, viewerID string, liked bool) (int, error)

	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
