package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trivia-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store keeps challenge documents as JSONB and highscores as rows.
// Listing order follows the insertion sequence of each table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// PutFixed inserts or replaces a fixed challenge. A replaced challenge keeps
// its position in the listing.
func (s *Store) PutFixed(ctx context.Context, c domain.FixedChallenge) error {
	if err := domain.ValidateFixedChallenge(c); err != nil {
		return err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO challenges (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		c.ID, string(raw))
	if err != nil {
		return fmt.Errorf("put challenge: %w", err)
	}
	return nil
}

func (s *Store) ListFixed(ctx context.Context) ([]domain.FixedChallenge, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM challenges ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	out := []domain.FixedChallenge{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		var c domain.FixedChallenge
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("unmarshal challenge: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListAuthored(ctx context.Context) ([]domain.AuthoredQuiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT data, created_at FROM quizzes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	out := []domain.AuthoredQuiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) CreateAuthored(ctx context.Context, quiz domain.AuthoredQuiz) (domain.AuthoredQuiz, error) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return domain.AuthoredQuiz{}, fmt.Errorf("marshal quiz: %w", err)
	}
	var created time.Time
	err = s.pool.QueryRow(ctx,
		`INSERT INTO quizzes (id, creator_uid, data) VALUES ($1, $2, $3::jsonb) RETURNING created_at`,
		quiz.ID, quiz.CreatorUID, string(raw)).Scan(&created)
	if err != nil {
		return domain.AuthoredQuiz{}, fmt.Errorf("create quiz: %w", err)
	}
	quiz.CreatedAt = created.UTC()
	return quiz, nil
}

// LoadChallenge looks the id up among fixed challenges first, then quizzes.
func (s *Store) LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM challenges WHERE id=$1`, id).Scan(&raw)
	switch {
	case err == nil:
		var c domain.FixedChallenge
		if err := json.Unmarshal(raw, &c); err != nil {
			return domain.StoredChallenge{}, fmt.Errorf("unmarshal challenge: %w", err)
		}
		return domain.FromFixed(c), nil
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.StoredChallenge{}, fmt.Errorf("load challenge: %w", err)
	}

	q, err := scanQuiz(s.pool.QueryRow(ctx, `SELECT data, created_at FROM quizzes WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StoredChallenge{}, domain.ErrChallengeNotFound
	}
	if err != nil {
		return domain.StoredChallenge{}, err
	}
	return domain.FromAuthored(q), nil
}

func (s *Store) AppendScore(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error) {
	record.ID = uuid.NewString()
	var created time.Time
	err := s.pool.QueryRow(ctx,
		`INSERT INTO highscores (id, challenge_id, score, user_id, username)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		record.ID, record.ChallengeID, record.Score, record.UserID, record.Username).Scan(&created)
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("append score: %w", err)
	}
	record.Timestamp = created.UTC()
	return record, nil
}

// TopScores orders by score descending; ties keep submission order.
func (s *Store) TopScores(ctx context.Context, challengeID string, limit int) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, challenge_id, score, user_id, username, created_at
		   FROM highscores
		  WHERE challenge_id = $1
		  ORDER BY score DESC, seq
		  LIMIT $2`,
		challengeID, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	out := []domain.ScoreRecord{}
	for rows.Next() {
		var r domain.ScoreRecord
		if err := rows.Scan(&r.ID, &r.ChallengeID, &r.Score, &r.UserID, &r.Username, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		r.Timestamp = r.Timestamp.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanQuiz(row pgx.Row) (domain.AuthoredQuiz, error) {
	var (
		raw     []byte
		created time.Time
	)
	if err := row.Scan(&raw, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AuthoredQuiz{}, err
		}
		return domain.AuthoredQuiz{}, fmt.Errorf("scan quiz: %w", err)
	}
	var q domain.AuthoredQuiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.AuthoredQuiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	q.CreatedAt = created.UTC()
	return q, nil
}
