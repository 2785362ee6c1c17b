package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateStories, downCreateStories)
}

func upCreateStories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE stories (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
		username    TEXT NOT NULL,
		image_url   TEXT NOT NULL,
		kind        TEXT NOT NULL DEFAULT 'ephemeral',
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		expires_at  TIMESTAMP WITH TIME ZONE NOT NULL,
		views_count INTEGER NOT NULL DEFAULT 0,
		likes_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX stories_expires_at_idx ON stories (expires_at);
	CREATE INDEX stories_user_id_idx ON stories (user_id);

	CREATE TABLE story_views (
		story_id  TEXT NOT NULL REFERENCES stories (id) ON DELETE CASCADE,
		user_id   TEXT NOT NULL,
		viewed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		PRIMARY KEY (story_id, user_id)
	);

	CREATE TABLE story_likes (
		story_id   TEXT NOT NULL REFERENCES stories (id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		PRIMARY KEY (story_id, user_id)
	);
	`)
	return err
}

func downCreateStories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE story_likes;
	DROP TABLE story_views;
	DROP TABLE stories;
	`)
	return err
}
