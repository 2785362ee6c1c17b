package storyserviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/events"
	"github.com/orgball2608/story-viewer-bot/internal/playback"
	storyRepo "github.com/orgball2608/story-viewer-bot/internal/repositories/story"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	StoryRepo storyRepo.Repository
	Events    events.Publisher
	Config    *config.Config
	Logger    logger.Logger
	Clock     clockwork.Clock `optional:"true"`
}

type Impl struct {
	storyRepo storyRepo.Repository
	events    events.Publisher
	config    *config.Config
	logger    logger.Logger
	clock     clockwork.Clock
}

func New(opts Opts) *Impl {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Impl{
		storyRepo: opts.StoryRepo,
		events:    opts.Events,
		config:    opts.Config,
		logger:    opts.Logger.WithComponent("StoryService"),
		clock:     clock,
	}
}

var (
	_ storyservice.Client   = (*Impl)(nil)
	_ playback.StoryService = (*Impl)(nil)
)

func (s *Impl) ListActive(ctx context.Context, viewer domain.Viewer) ([]domain.Story, error) {
	stories, err := s.storyRepo.ListActive(ctx, viewer.ID, s.clock.Now(), s.config.Feed.Size)
	if err != nil {
		return nil, apperrors.Wrap(err, "list active stories")
	}
	return stories, nil
}

func (s *Impl) ListByOwner(ctx context.Context, ownerID string) ([]domain.Story, error) {
	if ownerID == "" {
		return nil, storyservice.ErrLoginRequired
	}
	stories, err := s.storyRepo.ListByOwner(ctx, ownerID, s.clock.Now())
	if err != nil {
		return nil, apperrors.Wrap(err, "list stories of "+ownerID)
	}
	return stories, nil
}

func (s *Impl) Create(ctx context.Context, owner domain.Viewer, mediaURL string, kind domain.StoryKind) (*domain.Story, error) {
	if owner.IsAnonymous() {
		return nil, storyservice.ErrLoginRequired
	}
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, storyservice.ErrEmptyMedia
	}
	if kind == "" {
		kind = domain.StoryKindEphemeral
	}

	now := s.clock.Now()
	story := domain.Story{
		ID:               uuid.NewString(),
		OwnerID:          owner.ID,
		OwnerDisplayName: owner.Username,
		MediaURL:         mediaURL,
		Kind:             kind,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.config.Feed.StoryTTL),
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, apperrors.Wrap(err, "create story")
	}

	s.logger.Info("Story created", "story_id", story.ID, "owner", owner.Username, "kind", string(kind))
	s.publish(ctx, events.KindCreated, events.StoryEvent{StoryID: story.ID, OwnerID: owner.ID, At: now})
	return &story, nil
}

func (s *Impl) RecordView(ctx context.Context, storyID, viewerID string) error {
	if viewerID == "" {
		return storyservice.ErrLoginRequired
	}

	count, err := s.storyRepo.AddView(ctx, storyID, viewerID)
	if err != nil {
		return s.mapRepoError(err, "record view")
	}

	s.publish(ctx, events.KindViewed, events.StoryEvent{StoryID: storyID, ViewerID: viewerID, Count: count})
	return nil
}

func (s *Impl) SetLike(ctx context.Context, storyID, viewerID string, liked bool) error {
	if viewerID == "" {
		return storyservice.ErrLoginRequired
	}

	count, err := s.storyRepo.SetLike(ctx, storyID, viewerID, liked)
	if err != nil {
		return s.mapRepoError(err, "set like")
	}

	s.publish(ctx, events.KindLiked, events.StoryEvent{StoryID: storyID, ViewerID: viewerID, Liked: liked, Count: count})
	return nil
}

func (s *Impl) DeleteStory(ctx context.Context, storyID, viewerID string) error {
	if viewerID == "" {
		return storyservice.ErrLoginRequired
	}

	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return s.mapRepoError(err, "get story")
	}
	if story.OwnerID != viewerID {
		s.logger.Warn("Refused story delete by non-owner", "story_id", storyID, "viewer_id", viewerID)
		return storyservice.ErrNotOwner
	}

	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		return s.mapRepoError(err, "delete story")
	}

	s.logger.Info("Story deleted", "story_id", storyID)
	s.publish(ctx, events.KindDeleted, events.StoryEvent{StoryID: storyID, OwnerID: story.OwnerID})
	return nil
}

func (s *Impl) CleanupExpired(ctx context.Context, grace time.Duration) (int64, error) {
	before := s.clock.Now().Add(-grace)
	deleted, err := s.storyRepo.DeleteExpired(ctx, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "cleanup expired stories")
	}
	return deleted, nil
}

func (s *Impl) mapRepoError(err error, msg string) error {
	if errors.Is(err, storyRepo.ErrNotFound) {
		return storyservice.ErrNotFound
	}
	return apperrors.Wrap(err, msg)
}

// publish never fails the operation that produced the event.
func (s *Impl) publish(ctx context.Context, kind events.Kind, e events.StoryEvent) {
	if s.events == nil {
		return
	}
	if e.At.IsZero() {
		e.At = s.clock.Now()
	}
	if err := s.events.Publish(ctx, kind, e); err != nil {
		s.logger.Warn("Failed to publish story event", "kind", string(kind), "story_id", e.StoryID, "error", err)
	}
}
