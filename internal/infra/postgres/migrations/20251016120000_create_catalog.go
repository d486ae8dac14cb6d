package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return execAll(ctx, db,
				`CREATE TABLE IF NOT EXISTS challenges (
					id   TEXT PRIMARY KEY,
					seq  BIGSERIAL NOT NULL,
					data JSONB NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS quizzes (
					id          TEXT PRIMARY KEY,
					seq         BIGSERIAL NOT NULL,
					creator_uid TEXT NOT NULL,
					data        JSONB NOT NULL,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
			)
		},
		func(ctx context.Context, db *bun.DB) error {
			return execAll(ctx, db,
				`DROP TABLE IF EXISTS quizzes`,
				`DROP TABLE IF EXISTS challenges`,
			)
		},
	)
}
