package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trivia-service/internal/domain"

	"github.com/google/uuid"
)

// Store is an in-process document store holding fixed challenges, authored
// quizzes and highscores. Collections keep insertion order.
type Store struct {
	clock func() time.Time

	mu       sync.RWMutex
	fixed    []domain.FixedChallenge
	authored []domain.AuthoredQuiz
	scores   []domain.ScoreRecord
}

func NewStore() *Store {
	return &Store{clock: time.Now}
}

// PutFixed inserts or replaces a fixed challenge by id.
func (s *Store) PutFixed(_ context.Context, c domain.FixedChallenge) error {
	if err := domain.ValidateFixedChallenge(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.fixed {
		if s.fixed[i].ID == c.ID {
			s.fixed[i] = c
			return nil
		}
	}
	s.fixed = append(s.fixed, c)
	return nil
}

func (s *Store) ListFixed(_ context.Context) ([]domain.FixedChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FixedChallenge(nil), s.fixed...), nil
}

func (s *Store) ListAuthored(_ context.Context) ([]domain.AuthoredQuiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuthoredQuiz(nil), s.authored...), nil
}

func (s *Store) CreateAuthored(_ context.Context, quiz domain.AuthoredQuiz) (domain.AuthoredQuiz, error) {
	quiz.CreatedAt = s.clock().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authored = append(s.authored, quiz)
	return quiz, nil
}

// LoadChallenge looks the id up among fixed challenges first, then quizzes.
func (s *Store) LoadChallenge(_ context.Context, id string) (domain.StoredChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.fixed {
		if c.ID == id {
			return domain.FromFixed(c), nil
		}
	}
	for _, q := range s.authored {
		if q.ID == id {
			return domain.FromAuthored(q), nil
		}
	}
	return domain.StoredChallenge{}, domain.ErrChallengeNotFound
}

func (s *Store) AppendScore(_ context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error) {
	record.ID = uuid.NewString()
	record.Timestamp = s.clock().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, record)
	return record, nil
}

// TopScores orders by score descending; ties keep submission order.
func (s *Store) TopScores(_ context.Context, challengeID string, limit int) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	var out []domain.ScoreRecord
	for _, r := range s.scores {
		if r.ChallengeID == challengeID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
