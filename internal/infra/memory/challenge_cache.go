package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// ChallengeLoader fetches a challenge from a backing document store.
type ChallengeLoader interface {
	LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error)
}

// ChallengeCache keeps loaded challenges for a TTL to avoid repeated store
// hits. Misses are not cached, so a quiz created after a failed lookup is
// visible on the next read. A non-positive TTL disables caching.
type ChallengeCache struct {
	loader ChallengeLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedChallenge
}

type cachedChallenge struct {
	challenge domain.StoredChallenge
	expiresAt time.Time
}

func NewChallengeCache(loader ChallengeLoader, ttl time.Duration) *ChallengeCache {
	return &ChallengeCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedChallenge),
	}
}

func (c *ChallengeCache) LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error) {
	if ch, ok := c.lookup(id); ok {
		return ch, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		if ch, ok := c.lookup(id); ok {
			return ch, nil
		}
		// Shared by every waiter on id; the first caller's cancellation stays out.
		ch, err := c.loader.LoadChallenge(context.WithoutCancel(ctx), id)
		if err != nil {
			return domain.StoredChallenge{}, err
		}
		if c.ttl > 0 {
			expiresAt := c.clock().Add(c.ttlWithJitter())
			c.mu.Lock()
			c.cache[id] = cachedChallenge{challenge: ch, expiresAt: expiresAt}
			c.mu.Unlock()
		}
		return ch, nil
	})
	if err != nil {
		return domain.StoredChallenge{}, err
	}
	return result.(domain.StoredChallenge), nil
}

func (c *ChallengeCache) lookup(id string) (domain.StoredChallenge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[id]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.StoredChallenge{}, false
	}
	return entry.challenge, true
}

// ttlWithJitter adds up to 10% to spread expirations. c.mu must not be held.
func (c *ChallengeCache) ttlWithJitter() time.Duration {
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
