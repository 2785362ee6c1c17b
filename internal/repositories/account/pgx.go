package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/story-viewer-bot/internal/domain"
	"github.com/orgball2608/story-viewer-bot/internal/repositories"
	"github.com/orgball2608/story-viewer-bot/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("AccountRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, acc domain.Account) error {
	query, args, err := repositories.SqBuilder.
		Insert("accounts").
		Columns("id", "chat_id", "username", "created_at").
		Values(acc.ID, acc.ChatID, acc.Username, acc.CreatedAt).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return errors.Join(err, ErrCannotCreate)
	}
	return nil
}

func (r *PgxRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *PgxRepository) GetByChatID(ctx context.Context, chatID int64) (*domain.Account, error) {
	return r.getOne(ctx, sq.Eq{"chat_id": chatID})
}

func (r *PgxRepository) getOne(ctx context.Context, where sq.Eq) (*domain.Account, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "chat_id", "username", "created_at").
		From("accounts").
		Where(where).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var acc domain.Account
	err = r.pool.QueryRow(ctx, query, args...).Scan(&acc.ID, &acc.ChatID, &acc.Username, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *PgxRepository) DeleteByChatID(ctx context.Context, chatID int64) error {
	query, args, err := repositories.SqBuilder.
		Delete("accounts").
		Where(sq.Eq{"chat_id": chatID}).
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
