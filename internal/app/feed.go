package app

import (
	"context"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// Feed fans leaderboard snapshots out to subscribers of a challenge.
type Feed struct {
	mu          sync.Mutex
	subscribers map[string]map[*subscriber]struct{}
}

type subscriber struct {
	ch        chan domain.Leaderboard
	last      time.Time
	delivered bool
}

// deliver never blocks and never hands out a snapshot older than one already
// delivered. A full buffer loses its oldest pending snapshot. Callers hold
// the feed lock.
func (s *subscriber) deliver(lb domain.Leaderboard) {
	if lb.UpdatedAt.Before(s.last) {
		return
	}
	s.last = lb.UpdatedAt
	s.delivered = true
	select {
	case s.ch <- lb:
	default:
		select {
		case <-s.ch:
		default:
		}
		s.ch <- lb
	}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[string]map[*subscriber]struct{})}
}

// Subscription is one registered listener of a challenge.
type Subscription struct {
	feed        *Feed
	challengeID string
	sub         *subscriber
	once        sync.Once
}

// Subscribe registers for every snapshot of challengeID published from now
// on. The caller supplies the current state with Prime and must call Cancel.
func (f *Feed) Subscribe(challengeID string) *Subscription {
	sub := &subscriber{ch: make(chan domain.Leaderboard, 8)}

	f.mu.Lock()
	set, ok := f.subscribers[challengeID]
	if !ok {
		set = make(map[*subscriber]struct{})
		f.subscribers[challengeID] = set
	}
	set[sub] = struct{}{}
	f.mu.Unlock()

	return &Subscription{feed: f, challengeID: challengeID, sub: sub}
}

func (s *Subscription) Updates() <-chan domain.Leaderboard { return s.sub.ch }

// Prime delivers a snapshot taken after Subscribe. It is dropped when a
// snapshot stamped at or after it was already published to this subscriber.
func (s *Subscription) Prime(lb domain.Leaderboard) {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	if _, ok := s.feed.subscribers[s.challengeID][s.sub]; !ok {
		return
	}
	if s.sub.delivered && !lb.UpdatedAt.After(s.sub.last) {
		return
	}
	s.sub.deliver(lb)
}

// Cancel unregisters and closes the updates channel. It is idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		f := s.feed
		f.mu.Lock()
		defer f.mu.Unlock()
		set := f.subscribers[s.challengeID]
		delete(set, s.sub)
		close(s.sub.ch)
		if len(set) == 0 {
			delete(f.subscribers, s.challengeID)
		}
	})
}

// Watching reports whether anyone is subscribed to challengeID.
func (f *Feed) Watching(challengeID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[challengeID]) > 0
}

// Publish delivers lb to every subscriber of its challenge without blocking.
func (f *Feed) Publish(lb domain.Leaderboard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subscribers[lb.ChallengeID] {
		sub.deliver(lb)
	}
}

// Broadcast publishes lb locally.
func (f *Feed) Broadcast(_ context.Context, lb domain.Leaderboard) error {
	f.Publish(lb)
	return nil
}
