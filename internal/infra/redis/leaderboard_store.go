package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"trivia-service/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LeaderboardStore keeps highscores in Redis.
// Each record is a hash:      HSET highscore:{scoreID} challengeId .. score .. userId .. username .. timestamp ..
// Each challenge is a zset:   ZADD highscores:{challengeID} {score} {scoreID}
type LeaderboardStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client, clock: time.Now}
}

func (s *LeaderboardStore) AppendScore(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error) {
	record.ID = uuid.NewString()
	record.Timestamp = s.clock().UTC()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, recordKey(record.ID), map[string]interface{}{
			"challengeId": record.ChallengeID,
			"score":       strconv.FormatFloat(record.Score, 'f', -1, 64),
			"userId":      record.UserID,
			"username":    record.Username,
			"timestamp":   record.Timestamp.Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, boardKey(record.ChallengeID), redis.Z{Score: record.Score, Member: record.ID})
		return nil
	})
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("append score: %w", err)
	}
	return record, nil
}

// TopScores orders by score descending. Records with equal scores come back
// in an unspecified order.
func (s *LeaderboardStore) TopScores(ctx context.Context, challengeID string, limit int) ([]domain.ScoreRecord, error) {
	if limit <= 0 {
		return []domain.ScoreRecord{}, nil
	}
	ids, err := s.client.ZRevRange(ctx, boardKey(challengeID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(ids) == 0 {
		return []domain.ScoreRecord{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, recordKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("read score records: %w", err)
	}

	out := make([]domain.ScoreRecord, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		out = append(out, recordFromHash(ids[i], fields))
	}
	return out, nil
}

func recordFromHash(id string, fields map[string]string) domain.ScoreRecord {
	score, _ := strconv.ParseFloat(fields["score"], 64)
	ts, _ := time.Parse(time.RFC3339Nano, fields["timestamp"])
	return domain.ScoreRecord{
		ID:          id,
		ChallengeID: fields["challengeId"],
		Score:       score,
		UserID:      fields["userId"],
		Username:    fields["username"],
		Timestamp:   ts,
	}
}

func recordKey(id string) string {
	return "highscore:" + id
}

func boardKey(challengeID string) string {
	return "highscores:" + challengeID
}
