package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"trivia-service/internal/domain"
)

func TestChallengeCacheCaches(t *testing.T) {
	store := NewStore()
	if err := store.PutFixed(context.Background(), sampleChallenge()); err != nil {
		t.Fatalf("put fixed: %v", err)
	}
	loader := &countingLoader{ChallengeLoader: store}
	cache := NewChallengeCache(loader, time.Minute)

	if _, err := cache.LoadChallenge(context.Background(), "general"); err != nil {
		t.Fatalf("load challenge: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls.Load())
	}

	got, err := cache.LoadChallenge(context.Background(), "general")
	if err != nil {
		t.Fatalf("load challenge 2: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls.Load())
	}
	if got.Kind != domain.KindFixed || got.QuestionCount() != 2 {
		t.Fatalf("unexpected cached challenge %+v", got)
	}
}

func TestChallengeCacheExpires(t *testing.T) {
	store := NewStore()
	_ = store.PutFixed(context.Background(), sampleChallenge())
	loader := &countingLoader{ChallengeLoader: store}
	cache := NewChallengeCache(loader, time.Minute)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.LoadChallenge(context.Background(), "general")
	now = now.Add(2 * time.Minute)
	_, _ = cache.LoadChallenge(context.Background(), "general")

	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls.Load())
	}
}

func TestChallengeCacheDoesNotCacheMisses(t *testing.T) {
	store := NewStore()
	loader := &countingLoader{ChallengeLoader: store}
	cache := NewChallengeCache(loader, time.Minute)

	_, err := cache.LoadChallenge(context.Background(), "general")
	if !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_ = store.PutFixed(context.Background(), sampleChallenge())
	if _, err := cache.LoadChallenge(context.Background(), "general"); err != nil {
		t.Fatalf("expected challenge after seeding, got %v", err)
	}
}

func TestChallengeCacheZeroTTLDisablesCaching(t *testing.T) {
	store := NewStore()
	_ = store.PutFixed(context.Background(), sampleChallenge())
	loader := &countingLoader{ChallengeLoader: store}
	cache := NewChallengeCache(loader, 0)

	for i := 0; i < 2; i++ {
		if _, err := cache.LoadChallenge(context.Background(), "general"); err != nil {
			t.Fatalf("load challenge: %v", err)
		}
	}
	if loader.calls.Load() != 2 {
		t.Fatalf("expected every call to reach the loader, got %d", loader.calls.Load())
	}
}

func TestChallengeCacheLoadIgnoresCallerCancellation(t *testing.T) {
	store := NewStore()
	_ = store.PutFixed(context.Background(), sampleChallenge())
	cache := NewChallengeCache(cancelAwareLoader{store}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cache.LoadChallenge(ctx, "general"); err != nil {
		t.Fatalf("shared load failed with caller context: %v", err)
	}
	if _, ok := cache.lookup("general"); !ok {
		t.Fatalf("expected challenge cached for other callers")
	}
}

// cancelAwareLoader fails like a database driver once its context is done.
type cancelAwareLoader struct {
	ChallengeLoader
}

func (l cancelAwareLoader) LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error) {
	if err := ctx.Err(); err != nil {
		return domain.StoredChallenge{}, err
	}
	return l.ChallengeLoader.LoadChallenge(ctx, id)
}

type countingLoader struct {
	ChallengeLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error) {
	l.calls.Add(1)
	return l.ChallengeLoader.LoadChallenge(ctx, id)
}

func sampleChallenge() domain.FixedChallenge {
	return domain.FixedChallenge{
		ID:   "general",
		Name: "General Knowledge",
		Questions: []domain.Question{
			{Question: "What is 2 + 2?", Choices: []string{"3", "4"}, CorrectAnswerIndex: 1, Difficulty: domain.DifficultyBeginner},
			{Question: "Largest planet?", Choices: []string{"Mars", "Jupiter"}, CorrectAnswerIndex: 1, Difficulty: domain.DifficultyHard},
		},
	}
}
