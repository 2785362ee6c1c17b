// Package migrations holds the schema as goose Go migrations. Importing it
// registers them.
package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

// dir only has to exist. Every migration is registered from Go code.
const dir = "."

func Up(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}

func Down(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.DownContext(ctx, db, dir)
}

func Status(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, dir)
}

func Reset(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.ResetContext(ctx, db, dir)
}
