package domain

import "time"

// Kind tags which collection a challenge was loaded from.
type Kind int

const (
	KindFixed Kind = iota + 1
	KindAuthored
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindAuthored:
		return "authored"
	default:
		return "unknown"
	}
}

// Question is the canonical shape consumed by the quiz-taking flow.
type Question struct {
	Question           string   `json:"question" yaml:"question"`
	Choices            []string `json:"choices" yaml:"choices"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex" yaml:"correctAnswerIndex"`
	Difficulty         string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// Answer is one choice of an authored question.
type Answer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// AuthoredQuestion is the shape produced by the authoring flow.
type AuthoredQuestion struct {
	QuestionText string   `json:"questionText"`
	Answers      []Answer `json:"answers"`
	Order        int      `json:"order"`
}

// FixedChallenge is seeded out-of-band and read-only to the API.
type FixedChallenge struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// AuthoredQuiz is a user-created challenge. It is immutable once stored.
type AuthoredQuiz struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Difficulty string             `json:"difficulty"`
	CreatorUID string             `json:"creatorUid"`
	Questions  []AuthoredQuestion `json:"questions"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// StoredChallenge is a challenge as loaded from either collection. Exactly one
// of Fixed or Authored is set, matching Kind.
type StoredChallenge struct {
	Kind     Kind            `json:"kind"`
	Fixed    *FixedChallenge `json:"fixed,omitempty"`
	Authored *AuthoredQuiz   `json:"authored,omitempty"`
}

// FromFixed wraps a fixed challenge.
func FromFixed(c FixedChallenge) StoredChallenge {
	return StoredChallenge{Kind: KindFixed, Fixed: &c}
}

// FromAuthored wraps an authored quiz.
func FromAuthored(q AuthoredQuiz) StoredChallenge {
	return StoredChallenge{Kind: KindAuthored, Authored: &q}
}

// Valid reports whether the payload matching Kind is present.
func (c StoredChallenge) Valid() bool {
	switch c.Kind {
	case KindFixed:
		return c.Fixed != nil
	case KindAuthored:
		return c.Authored != nil
	}
	return false
}

// ID returns the challenge id regardless of kind.
func (c StoredChallenge) ID() string {
	switch c.Kind {
	case KindFixed:
		return c.Fixed.ID
	case KindAuthored:
		return c.Authored.ID
	}
	return ""
}

// QuestionCount is the number of stored questions before any filtering.
func (c StoredChallenge) QuestionCount() int {
	switch c.Kind {
	case KindFixed:
		return len(c.Fixed.Questions)
	case KindAuthored:
		return len(c.Authored.Questions)
	}
	return 0
}

// Summary projects the challenge into its list representation.
func (c StoredChallenge) Summary() ChallengeSummary {
	switch c.Kind {
	case KindFixed:
		return ChallengeSummary{
			ID:            c.Fixed.ID,
			Name:          c.Fixed.Name,
			IsCustom:      false,
			QuestionCount: len(c.Fixed.Questions),
		}
	case KindAuthored:
		created := c.Authored.CreatedAt
		return ChallengeSummary{
			ID:            c.Authored.ID,
			Name:          c.Authored.Name,
			Category:      c.Authored.Category,
			Difficulty:    c.Authored.Difficulty,
			IsCustom:      true,
			QuestionCount: len(c.Authored.Questions),
			CreatorUID:    c.Authored.CreatorUID,
			CreatedAt:     &created,
		}
	}
	return ChallengeSummary{}
}

// CanonicalQuestions returns the playable question set. Fixed challenges are
// filtered by difficulty when one is given; authored quizzes ignore it and are
// normalized instead.
func (c StoredChallenge) CanonicalQuestions(difficulty string) ([]Question, error) {
	switch c.Kind {
	case KindFixed:
		return FilterByDifficulty(c.Fixed.Questions, difficulty), nil
	case KindAuthored:
		return NormalizeAll(c.Authored.Questions)
	}
	return nil, ErrChallengeNotFound
}

// ChallengeSummary is one entry of the merged challenge list.
type ChallengeSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"`
	IsCustom      bool       `json:"isCustom"`
	QuestionCount int        `json:"questionCount"`
	CreatorUID    string     `json:"creatorUid,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// Identity is the verified caller of a protected operation.
type Identity struct {
	UID   string
	Name  string
	Email string
}

// Label is the best-effort display label: name, else email, else subject id.
func (i Identity) Label() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return i.UID
}

// ScoreRecord is one submitted play-through. Records are append-only.
type ScoreRecord struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challengeId"`
	Score       float64   `json:"score"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Timestamp   time.Time `json:"timestamp"`
}

// LeaderboardEntry is the public projection of a ScoreRecord.
type LeaderboardEntry struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// Leaderboard is a top-N snapshot for one challenge, used by the live feed.
type Leaderboard struct {
	ChallengeID string             `json:"challengeId"`
	Entries     []LeaderboardEntry `json:"entries"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Entries projects score records into leaderboard entries, preserving order.
func Entries(records []ScoreRecord) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(records))
	for _, r := range records {
		out = append(out, LeaderboardEntry{Username: r.Username, Score: r.Score})
	}
	return out
}
