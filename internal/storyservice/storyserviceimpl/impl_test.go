package storyserviceimpl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/events"
	mock_events "github.com/orgball2608/story-viewer-bot/internal/events/mocks"
	storyRepo "github.com/orgball2608/story-viewer-bot/internal/repositories/story"
	mock_story "github.com/orgball2608/story-viewer-bot/internal/repositories/story/mocks"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice"
	"github.com/orgball2608/story-viewer-bot/internal/storyservice/storyserviceimpl"
	"github.com/orgball2608/story-viewer-bot/pkg/config"
	apperrors "github.com/orgball2608/story-viewer-bot/pkg/errors"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	alice = domain.Viewer{ID: "acc-alice", Username: "alice", ChatID: 100}
)

type fixture struct {
	repo   *mock_story.MockRepository
	events *mock_events.MockPublisher
	clock  *clockwork.FakeClock
	svc    *storyserviceimpl.Impl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Feed.StoryTTL = 24 * time.Hour
	cfg.Feed.Size = 50

	f := &fixture{
		repo:   mock_story.NewMockRepository(ctrl),
		events: mock_events.NewMockPublisher(ctrl),
		clock:  clockwork.NewFakeClockAt(start),
	}
	f.svc = storyserviceimpl.New(storyserviceimpl.Opts{
		StoryRepo: f.repo,
		Events:    f.events,
		Config:    cfg,
		Logger:    logger.Nop(),
		Clock:     f.clock,
	})
	return f
}

func TestCreate(t *testing.T) {
	t.Run("stores the story with an expiry and publishes it", func(t *testing.T) {
		f := newFixture(t)

		var stored domain.Story
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s domain.Story) error {
				stored = s
				return nil
			})
		f.events.EXPECT().Publish(gomock.Any(), events.KindCreated, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ events.Kind, e events.StoryEvent) error {
				assert.Equal(t, stored.ID, e.StoryID)
				assert.Equal(t, alice.ID, e.OwnerID)
				return nil
			})

		s, err := f.svc.Create(context.Background(), alice, " tg://file/abc ", "")
		require.NoError(t, err)

		assert.NotEmpty(t, s.ID)
		assert.Equal(t, stored, *s)
		assert.Equal(t, "tg://file/abc", s.MediaURL)
		assert.Equal(t, domain.StoryKindEphemeral, s.Kind)
		assert.Equal(t, alice.Username, s.OwnerDisplayName)
		assert.Equal(t, start, s.CreatedAt)
		assert.Equal(t, start.Add(24*time.Hour), s.ExpiresAt)
	})

	t.Run("requires a signed-in owner", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(context.Background(), domain.Anonymous, "tg://file/abc", domain.StoryKindEphemeral)
		assert.ErrorIs(t, err, storyservice.ErrLoginRequired)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("requires media", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(context.Background(), alice, "  ", domain.StoryKindEphemeral)
		assert.ErrorIs(t, err, storyservice.ErrEmptyMedia)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("publish failure does not fail the create", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.events.EXPECT().Publish(gomock.Any(), events.KindCreated, gomock.Any()).Return(errors.New("nats: no servers"))

		_, err := f.svc.Create(context.Background(), alice, "tg://file/abc", domain.StoryKindLiveOrigin)
		assert.NoError(t, err)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(storyRepo.ErrCannotCreate)

		_, err := f.svc.Create(context.Background(), alice, "tg://file/abc", domain.StoryKindEphemeral)
		assert.ErrorIs(t, err, storyRepo.ErrCannotCreate)
	})
}

func TestListActive(t *testing.T) {
	f := newFixture(t)
	want := []domain.Story{{ID: "s1"}, {ID: "s2"}}
	f.repo.EXPECT().ListActive(gomock.Any(), alice.ID, start, 50).Return(want, nil)
	f.repo.EXPECT().ListActive(gomock.Any(), "", start, 50).Return(want, nil)

	got, err := f.svc.ListActive(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = f.svc.ListActive(context.Background(), domain.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecordView(t *testing.T) {
	t.Run("publishes the new count", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().AddView(gomock.Any(), "s1", alice.ID).Return(7, nil)
		f.events.EXPECT().Publish(gomock.Any(), events.KindViewed, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ events.Kind, e events.StoryEvent) error {
				assert.Equal(t, 7, e.Count)
				assert.Equal(t, start, e.At)
				return nil
			})

		require.NoError(t, f.svc.RecordView(context.Background(), "s1", alice.ID))
	})

	t.Run("unknown story", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().AddView(gomock.Any(), "gone", alice.ID).Return(0, storyRepo.ErrNotFound)

		err := f.svc.RecordView(context.Background(), "gone", alice.ID)
		assert.ErrorIs(t, err, storyservice.ErrNotFound)
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.svc.RecordView(context.Background(), "s1", ""), storyservice.ErrLoginRequired)
	})
}

func TestSetLike(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.repo.EXPECT().SetLike(gomock.Any(), "s1", alice.ID, true).Return(11, nil),
		f.events.EXPECT().Publish(gomock.Any(), events.KindLiked, events.StoryEvent{
			StoryID: "s1", ViewerID: alice.ID, Liked: true, Count: 11, At: start,
		}).Return(nil),
		f.repo.EXPECT().SetLike(gomock.Any(), "s1", alice.ID, false).Return(0, errors.New("deadlock detected")),
	)

	require.NoError(t, f.svc.SetLike(context.Background(), "s1", alice.ID, true))
	assert.Error(t, f.svc.SetLike(context.Background(), "s1", alice.ID, false))
}

func TestDeleteStory(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetByID(gomock.Any(), "s1").Return(&domain.Story{ID: "s1", OwnerID: alice.ID}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), "s1").Return(nil)
		f.events.EXPECT().Publish(gomock.Any(), events.KindDeleted, gomock.Any()).Return(nil)

		require.NoError(t, f.svc.DeleteStory(context.Background(), "s1", alice.ID))
	})

	t.Run("non-owner", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetByID(gomock.Any(), "s1").Return(&domain.Story{ID: "s1", OwnerID: "someone-else"}, nil)

		err := f.svc.DeleteStory(context.Background(), "s1", alice.ID)
		assert.ErrorIs(t, err, storyservice.ErrNotOwner)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("missing story", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetByID(gomock.Any(), "s1").Return(nil, storyRepo.ErrNotFound)

		assert.ErrorIs(t, f.svc.DeleteStory(context.Background(), "s1", alice.ID), storyservice.ErrNotFound)
	})
}

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().DeleteExpired(gomock.Any(), start.Add(-48*time.Hour)).Return(int64(3), nil)

	deleted, err := f.svc.CleanupExpired(context.Background(), 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
