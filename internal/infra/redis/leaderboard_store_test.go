package redis

import (
	"context"
	"testing"

	"trivia-service/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestLeaderboardStoreOrdersByScore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewLeaderboardStore(newClient(mr))

	scores := map[string]float64{"alice": 4, "bob": 9, "carol": 6.5}
	for name, score := range scores {
		rec, err := store.AppendScore(ctx, domain.ScoreRecord{
			ChallengeID: "general",
			Score:       score,
			UserID:      "uid-" + name,
			Username:    name,
		})
		if err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
		if rec.ID == "" || rec.Timestamp.IsZero() {
			t.Fatalf("expected id and timestamp, got %+v", rec)
		}
		if !mr.Exists("highscore:" + rec.ID) {
			t.Fatalf("expected record hash for %s", name)
		}
	}
	_, _ = store.AppendScore(ctx, domain.ScoreRecord{ChallengeID: "other", Score: 100, Username: "zed"})

	top, err := store.TopScores(ctx, "general", 2)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 records, got %d", len(top))
	}
	if top[0].Username != "bob" || top[0].Score != 9 {
		t.Fatalf("expected bob first, got %+v", top[0])
	}
	if top[1].Username != "carol" || top[1].Score != 6.5 || top[1].UserID != "uid-carol" {
		t.Fatalf("expected carol second, got %+v", top[1])
	}
	if top[1].ChallengeID != "general" || top[1].Timestamp.IsZero() {
		t.Fatalf("record fields not restored: %+v", top[1])
	}
}

func TestLeaderboardStoreEmpty(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	top, err := NewLeaderboardStore(newClient(mr)).TopScores(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if top == nil || len(top) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", top)
	}
}
