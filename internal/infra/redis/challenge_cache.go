package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"trivia-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"go.uber.org/zap"
)

// ChallengeLoader fetches a challenge from the document store.
type ChallengeLoader interface {
	LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error)
}

// ChallengeCache keeps challenge documents in Redis and falls back to a
// loader on miss. Documents are stored as JSON under challenge:{id}.
type ChallengeCache struct {
	client *redis.Client
	loader ChallengeLoader
	ttl    time.Duration
	sf     singleflight.Group
	log    *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewChallengeCache(client *redis.Client, loader ChallengeLoader, ttl time.Duration, log *zap.Logger) *ChallengeCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChallengeCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LoadChallenge serves id from Redis or loads and stores it. A non-positive
// TTL disables caching; concurrent loads of one id are still shared.
func (c *ChallengeCache) LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error) {
	if ch, ok := c.cached(ctx, id); ok {
		return ch, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// The load is shared, so one caller going away must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		// Another caller may have filled the key meanwhile.
		if ch, ok := c.cached(ctx, id); ok {
			return ch, nil
		}
		ch, err := c.loader.LoadChallenge(ctx, id)
		if err != nil {
			return domain.StoredChallenge{}, err
		}
		c.store(ctx, id, ch)
		return ch, nil
	})
	if err != nil {
		return domain.StoredChallenge{}, err
	}
	return result.(domain.StoredChallenge), nil
}

func (c *ChallengeCache) store(ctx context.Context, id string, ch domain.StoredChallenge) {
	if c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(ch)
	if err != nil {
		c.log.Warn("challenge cache encode failed", zap.String("challenge_id", id), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, challengeKey(id), raw, c.ttlWithJitter()).Err(); err != nil {
		c.log.Warn("challenge cache write failed", zap.String("challenge_id", id), zap.Error(err))
	}
}

// cached reads the document; Redis errors are treated as a miss.
func (c *ChallengeCache) cached(ctx context.Context, id string) (domain.StoredChallenge, bool) {
	if c.ttl <= 0 {
		return domain.StoredChallenge{}, false
	}
	raw, err := c.client.Get(ctx, challengeKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("challenge cache read failed", zap.String("challenge_id", id), zap.Error(err))
		}
		return domain.StoredChallenge{}, false
	}
	var ch domain.StoredChallenge
	if err := json.Unmarshal(raw, &ch); err != nil || !ch.Valid() {
		c.log.Warn("dropping unreadable cached challenge", zap.String("challenge_id", id), zap.Error(err))
		return domain.StoredChallenge{}, false
	}
	return ch, true
}

func challengeKey(id string) string {
	return fmt.Sprintf("challenge:%s", id)
}

// ttlWithJitter adds up to 10% to spread expirations.
func (c *ChallengeCache) ttlWithJitter() time.Duration {
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
