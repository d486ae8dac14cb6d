package app

import (
	"testing"
	"time"

	"trivia-service/internal/domain"
)

func TestFeedKeepsLatestForSlowSubscribers(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("general")
	defer sub.Cancel()

	for i := 0; i < 20; i++ {
		feed.Publish(domain.Leaderboard{
			ChallengeID: "general",
			Entries:     []domain.LeaderboardEntry{{Username: "u", Score: float64(i)}},
		})
	}

	var last domain.Leaderboard
	for len(sub.Updates()) > 0 {
		last = <-sub.Updates()
	}
	if len(last.Entries) != 1 || last.Entries[0].Score != 19 {
		t.Fatalf("expected newest snapshot to survive, got %+v", last)
	}
}

func TestFeedScopesByChallenge(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("a")

	feed.Publish(domain.Leaderboard{ChallengeID: "b"})
	if len(sub.Updates()) != 0 {
		t.Fatalf("subscriber of a received a snapshot for b")
	}
	if !feed.Watching("a") || feed.Watching("b") {
		t.Fatalf("unexpected watcher state")
	}

	sub.Cancel()
	sub.Cancel()
	if feed.Watching("a") {
		t.Fatalf("expected no watchers after cancel")
	}
	if _, ok := <-sub.Updates(); ok {
		t.Fatalf("expected channel closed after cancel")
	}
	sub.Prime(domain.Leaderboard{ChallengeID: "a"})
}

func TestFeedPrimeYieldsToNewerSnapshot(t *testing.T) {
	feed := NewFeed()
	sub := feed.Subscribe("general")
	defer sub.Cancel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feed.Publish(domain.Leaderboard{ChallengeID: "general", UpdatedAt: base.Add(time.Second)})
	sub.Prime(domain.Leaderboard{ChallengeID: "general", UpdatedAt: base})

	if n := len(sub.Updates()); n != 1 {
		t.Fatalf("expected only the newer snapshot, got %d pending", n)
	}
	if got := <-sub.Updates(); !got.UpdatedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}
