package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAccounts, downCreateAccounts)
}

func upCreateAccounts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE accounts (
		id         TEXT PRIMARY KEY,
		chat_id    BIGINT NOT NULL UNIQUE,
		username   TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
	`)
	return err
}

func downCreateAccounts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE accounts;`)
	return err
}
