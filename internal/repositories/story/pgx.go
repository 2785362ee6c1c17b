package story

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/repositories"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

const codeForeignKeyViolation = "23503"

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("StoryRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, s domain.Story) error {
	query, args, err := repositories.SqBuilder.
		Insert("stories").
		Columns("id", "user_id", "username", "image_url", "kind", "created_at", "expires_at").
		Values(s.ID, s.OwnerID, s.OwnerDisplayName, s.MediaURL, string(s.Kind), s.CreatedAt, s.ExpiresAt).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return errors.Join(err, ErrCannotCreate)
	}
	return nil
}

func (r *PgxRepository) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	query, args, err := selectStories("").
		Where(sq.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	s, err := scanStory(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get story by id: %w", err)
	}
	return &s, nil
}

func (r *PgxRepository) ListActive(ctx context.Context, viewerID string, now time.Time, limit int) ([]domain.Story, error) {
	b := selectStories(viewerID).
		Where(sq.Gt{"s.expires_at": now}).
		OrderBy("s.created_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}
	return r.query(ctx, query, args...)
}

func (r *PgxRepository) ListByOwner(ctx context.Context, ownerID string, now time.Time) ([]domain.Story, error) {
	query, args, err := selectStories(ownerID).
		Where(sq.Eq{"s.user_id": ownerID}).
		Where(sq.Gt{"s.expires_at": now}).
		OrderBy("s.created_at DESC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}
	return r.query(ctx, query, args...)
}

func (r *PgxRepository) AddView(ctx context.Context, storyID, viewerID string) (int, error) {
	insert := repositories.SqBuilder.
		Insert("story_views").
		Columns("story_id", "user_id", "viewed_at").
		Values(storyID, viewerID, time.Now()).
		Suffix("ON CONFLICT DO NOTHING")
	return r.mutateAndCount(ctx, insert, storyID, "views_count", "story_views")
}

func (r *PgxRepository) SetLike(ctx context.Context, storyID, viewerID string, liked bool) (int, error) {
	var stmt sq.Sqlizer
	if liked {
		stmt = repositories.SqBuilder.
			Insert("story_likes").
			Columns("story_id", "user_id", "created_at").
			Values(storyID, viewerID, time.Now()).
			Suffix("ON CONFLICT DO NOTHING")
	} else {
		stmt = repositories.SqBuilder.
			Delete("story_likes").
			Where(sq.Eq{"story_id": storyID, "user_id": viewerID})
	}
	return r.mutateAndCount(ctx, stmt, storyID, "likes_count", "story_likes")
}

// mutateAndCount runs stmt and recomputes counter from table in one
// transaction, returning the stored value.
func (r *PgxRepository) mutateAndCount(ctx context.Context, stmt sq.Sqlizer, storyID, counter, table string) (int, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}
	recount, recountArgs, err := repositories.SqBuilder.
		Update("stories").
		Set(counter, sq.Expr("(SELECT COUNT(*) FROM "+table+" WHERE story_id = ?)", storyID)).
		Where(sq.Eq{"id": storyID}).
		Suffix("RETURNING " + counter).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("Failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var count int
	if err := tx.QueryRow(ctx, recount, recountArgs...).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := repositories.SqBuilder.
		Delete("stories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgxRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("stories").
		Where(sq.LtOrEq{"expires_at": before}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	deleted := result.RowsAffected()
	if deleted > 0 {
		r.logger.Info("Expired stories removed", "count", deleted, "before", before)
	}
	return deleted, nil
}

func (r *PgxRepository) query(ctx context.Context, query string, args ...any) ([]domain.Story, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []domain.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stories, nil
}

func selectStories(viewerID string) sq.SelectBuilder {
	return repositories.SqBuilder.
		Select("s.id", "s.user_id", "s.username", "s.image_url", "s.kind", "s.created_at",
			"s.expires_at", "s.views_count", "s.likes_count").
		Column(sq.Expr("EXISTS (SELECT 1 FROM story_likes l WHERE l.story_id = s.id AND l.user_id = ?)", viewerID)).
		Column(sq.Expr("EXISTS (SELECT 1 FROM story_views v WHERE v.story_id = s.id AND v.user_id = ?)", viewerID)).
		From("stories s")
}

func scanStory(row pgx.Row) (domain.Story, error) {
	var (
		s    domain.Story
		kind string
	)
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.OwnerDisplayName,
		&s.MediaURL,
		&kind,
		&s.CreatedAt,
		&s.ExpiresAt,
		&s.ViewCount,
		&s.LikeCount,
		&s.ViewerHasLiked,
		&s.ViewerHasViewed,
	)
	s.Kind = domain.ParseStoryKind(kind)
	return s, err
}
