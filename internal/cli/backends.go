package cli

import (
	"context"
	"fmt"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
	"trivia-service/internal/infra/postgres"
	infraredis "trivia-service/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// documentStore is what both the memory and Postgres stores provide.
type documentStore interface {
	app.Catalog
	app.ChallengeLoader
	app.ScoreStore
	PutFixed(ctx context.Context, c domain.FixedChallenge) error
}

// backends holds the storage selected by config. Postgres replaces the
// in-memory store when a URL is configured; Redis takes over the leaderboard
// and challenge cache when an address is configured.
type backends struct {
	store  documentStore
	loader app.ChallengeLoader
	scores app.ScoreStore
	redis  *redis.Client
	pool   *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
		b.store = postgres.NewStore(pool)
		log.Info("using postgres document store")
	} else {
		b.store = memory.NewStore()
		log.Info("using in-memory document store")
	}
	b.scores = b.store

	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.loader = infraredis.NewChallengeCache(b.redis, b.store, cacheTTL, log)
		b.scores = infraredis.NewLeaderboardStore(b.redis)
		log.Info("using redis leaderboard and challenge cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		b.loader = memory.NewChallengeCache(b.store, cacheTTL)
	}
	return b, nil
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}
