package memory

import (
	"context"
	"errors"
	"testing"

	"trivia-service/internal/domain"
)

func TestStoreLoadPrefersFixed(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	_ = store.PutFixed(ctx, sampleChallenge())
	_, _ = store.CreateAuthored(ctx, domain.AuthoredQuiz{ID: "quiz_1", Name: "Mine"})

	got, err := store.LoadChallenge(ctx, "general")
	if err != nil || got.Kind != domain.KindFixed {
		t.Fatalf("expected fixed challenge, got %+v err=%v", got, err)
	}
	got, err = store.LoadChallenge(ctx, "quiz_1")
	if err != nil || got.Kind != domain.KindAuthored {
		t.Fatalf("expected authored quiz, got %+v err=%v", got, err)
	}
	if got.Authored.CreatedAt.IsZero() {
		t.Fatalf("expected creation time to be assigned")
	}
	if _, err := store.LoadChallenge(ctx, "missing"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStorePutFixedReplacesAndValidates(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	c := sampleChallenge()
	_ = store.PutFixed(ctx, c)
	c.Name = "Renamed"
	_ = store.PutFixed(ctx, c)

	list, _ := store.ListFixed(ctx)
	if len(list) != 1 || list[0].Name != "Renamed" {
		t.Fatalf("expected one replaced challenge, got %+v", list)
	}

	if err := store.PutFixed(ctx, domain.FixedChallenge{ID: "quiz_x", Name: "x"}); !errors.Is(err, domain.ErrReservedID) {
		t.Fatalf("expected reserved id error, got %v", err)
	}
}

func TestStoreTopScores(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for i, s := range []float64{3, 7, 5, 7} {
		_, err := store.AppendScore(ctx, domain.ScoreRecord{
			ChallengeID: "general",
			Score:       s,
			Username:    string(rune('a' + i)),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	_, _ = store.AppendScore(ctx, domain.ScoreRecord{ChallengeID: "other", Score: 10})

	top, err := store.TopScores(ctx, "general", 3)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 records, got %d", len(top))
	}
	want := []string{"b", "d", "c"}
	for i, r := range top {
		if r.Username != want[i] {
			t.Fatalf("position %d: got %q want %q", i, r.Username, want[i])
		}
		if r.ID == "" || r.Timestamp.IsZero() {
			t.Fatalf("expected id and timestamp, got %+v", r)
		}
	}
}
