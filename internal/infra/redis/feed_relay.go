package redis

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "leaderboard:"

// FeedRelay carries leaderboard snapshots between instances over Redis
// pub/sub. Broadcast publishes to leaderboard:{challengeID}; once started,
// every received snapshot is handed to the local feed, including the ones
// this instance published.
type FeedRelay struct {
	client *redis.Client
	feed   *app.Feed
	log    *zap.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

func NewFeedRelay(client *redis.Client, feed *app.Feed, log *zap.Logger) *FeedRelay {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedRelay{client: client, feed: feed, log: log}
}

func (r *FeedRelay) Broadcast(ctx context.Context, lb domain.Leaderboard) error {
	payload, err := json.Marshal(lb)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channelPrefix+lb.ChallengeID, payload).Err()
}

// Start subscribes and returns once the subscription is confirmed.
// Forwarding runs until Stop.
func (r *FeedRelay) Start(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, channelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	done := make(chan struct{})
	r.mu.Lock()
	r.pubsub = sub
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		for msg := range sub.Channel() {
			var lb domain.Leaderboard
			if err := json.Unmarshal([]byte(msg.Payload), &lb); err != nil {
				r.log.Warn("dropping malformed leaderboard message", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			if lb.ChallengeID == "" {
				lb.ChallengeID = strings.TrimPrefix(msg.Channel, channelPrefix)
			}
			r.feed.Publish(lb)
		}
	}()
	return nil
}

// Stop closes the subscription and waits for forwarding to finish.
func (r *FeedRelay) Stop() error {
	r.mu.Lock()
	sub, done := r.pubsub, r.done
	r.pubsub, r.done = nil, nil
	r.mu.Unlock()
	if sub == nil {
		return nil
	}
	err := sub.Close()
	<-done
	return err
}
