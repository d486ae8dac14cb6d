package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return execAll(ctx, db,
				`CREATE TABLE IF NOT EXISTS highscores (
					id           TEXT PRIMARY KEY,
					seq          BIGSERIAL NOT NULL,
					challenge_id TEXT NOT NULL,
					score        DOUBLE PRECISION NOT NULL,
					user_id      TEXT NOT NULL,
					username     TEXT NOT NULL,
					created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE INDEX IF NOT EXISTS highscores_challenge_score_idx
					ON highscores (challenge_id, score DESC, seq)`,
			)
		},
		func(ctx context.Context, db *bun.DB) error {
			return execAll(ctx, db, `DROP TABLE IF EXISTS highscores`)
		},
	)
}
