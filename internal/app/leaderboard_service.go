package app

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"trivia-service/internal/domain"

	"go.uber.org/zap"
)

const (
	// DefaultLeaderboardLimit is the size of a leaderboard when none is requested.
	DefaultLeaderboardLimit = 10
	// MaxLeaderboardLimit caps caller-supplied limits.
	MaxLeaderboardLimit = 100
)

// ScoreStore is the append-only highscores collection.
type ScoreStore interface {
	// AppendScore stores a record and returns it with its id and
	// server-assigned timestamp.
	AppendScore(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error)
	// TopScores returns up to limit records ordered by score descending.
	TopScores(ctx context.Context, challengeID string, limit int) ([]domain.ScoreRecord, error)
}

// Broadcaster delivers a leaderboard snapshot to live subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, lb domain.Leaderboard) error
}

// LeaderboardOption customizes a LeaderboardService.
type LeaderboardOption func(*LeaderboardService)

// WithBroadcaster routes snapshots through b instead of straight into the
// local feed. b is expected to deliver them to the feed eventually.
func WithBroadcaster(b Broadcaster) LeaderboardOption {
	return func(s *LeaderboardService) {
		s.broadcast = b
		s.relayed = true
	}
}

// WithDefaultLimit sets the leaderboard size used when callers pass no limit.
func WithDefaultLimit(n int) LeaderboardOption {
	return func(s *LeaderboardService) {
		if n > 0 {
			s.limit = min(n, MaxLeaderboardLimit)
		}
	}
}

// LeaderboardService implements score submission and leaderboard reads.
type LeaderboardService struct {
	scores    ScoreStore
	loader    ChallengeLoader
	feed      *Feed
	broadcast Broadcaster
	relayed   bool
	limit     int
	now       func() time.Time
	log       *zap.Logger
}

func NewLeaderboardService(scores ScoreStore, loader ChallengeLoader, feed *Feed, log *zap.Logger, opts ...LeaderboardOption) *LeaderboardService {
	if feed == nil {
		feed = NewFeed()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &LeaderboardService{
		scores:    scores,
		loader:    loader,
		feed:      feed,
		broadcast: feed,
		limit:     DefaultLeaderboardLimit,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitScore appends one score record for the caller. Scores for unknown
// challenges are accepted; scores for known ones may not exceed the number of
// questions the challenge has.
func (s *LeaderboardService) SubmitScore(ctx context.Context, challengeID string, score float64, who domain.Identity) (domain.ScoreRecord, error) {
	if who.UID == "" {
		return domain.ScoreRecord{}, domain.ErrUnauthenticated
	}
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return domain.ScoreRecord{}, &domain.ValidationError{Field: "challengeId", Reason: "is required"}
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return domain.ScoreRecord{}, &domain.ValidationError{Field: "score", Reason: "must be a non-negative number"}
	}

	challenge, err := s.loader.LoadChallenge(ctx, challengeID)
	switch {
	case err == nil:
		if max := challenge.QuestionCount(); score > float64(max) {
			return domain.ScoreRecord{}, &domain.ValidationError{Field: "score", Reason: "exceeds the number of questions"}
		}
	case errors.Is(err, domain.ErrChallengeNotFound):
		s.log.Debug("score submitted for unknown challenge", zap.String("challenge_id", challengeID))
	default:
		return domain.ScoreRecord{}, err
	}

	record, err := s.scores.AppendScore(ctx, domain.ScoreRecord{
		ChallengeID: challengeID,
		Score:       score,
		UserID:      who.UID,
		Username:    who.Label(),
	})
	if err != nil {
		return domain.ScoreRecord{}, err
	}
	scoresSubmitted.Inc()

	// Other instances may have watchers even when this one has none.
	if s.relayed || s.feed.Watching(challengeID) {
		s.publish(ctx, challengeID)
	}
	return record, nil
}

func (s *LeaderboardService) publish(ctx context.Context, challengeID string) {
	lb, err := s.snapshot(ctx, challengeID)
	if err == nil {
		err = s.broadcast.Broadcast(ctx, lb)
	}
	if err != nil {
		s.log.Warn("leaderboard broadcast failed", zap.String("challenge_id", challengeID), zap.Error(err))
	}
}

// TopScores returns the leaderboard of a challenge. A non-positive limit
// selects the default; larger limits are capped.
func (s *LeaderboardService) TopScores(ctx context.Context, challengeID string, limit int) ([]domain.LeaderboardEntry, error) {
	records, err := s.scores.TopScores(ctx, strings.TrimSpace(challengeID), s.clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return domain.Entries(records), nil
}

// Subscribe streams leaderboard snapshots for a challenge, starting with the
// current one. The caller must invoke the returned cancel function.
//
// Registration comes before the initial read so a submission racing with it
// is either in the initial snapshot or published afterwards.
func (s *LeaderboardService) Subscribe(ctx context.Context, challengeID string) (<-chan domain.Leaderboard, func(), error) {
	challengeID = strings.TrimSpace(challengeID)
	sub := s.feed.Subscribe(challengeID)
	lb, err := s.snapshot(ctx, challengeID)
	if err != nil {
		sub.Cancel()
		return nil, nil, err
	}
	sub.Prime(lb)
	return sub.Updates(), sub.Cancel, nil
}

func (s *LeaderboardService) snapshot(ctx context.Context, challengeID string) (domain.Leaderboard, error) {
	// Stamped before reading: the entries reflect at least this moment.
	at := s.now()
	entries, err := s.TopScores(ctx, challengeID, 0)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return domain.Leaderboard{
		ChallengeID: challengeID,
		Entries:     entries,
		UpdatedAt:   at,
	}, nil
}

func (s *LeaderboardService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.limit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}
