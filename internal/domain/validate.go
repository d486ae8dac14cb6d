package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AuthoredIDPrefix is reserved for ids of user-created quizzes.
const AuthoredIDPrefix = "quiz_"

// NewQuiz is the validated input of quiz creation.
type NewQuiz struct {
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Difficulty string             `json:"difficulty"`
	Questions  []AuthoredQuestion `json:"questions"`
}

// ValidateNewQuiz checks the request and returns a cleaned copy: trimmed
// fields, canonical difficulty label, questions ordered 1..N.
func ValidateNewQuiz(in NewQuiz) (NewQuiz, error) {
	out := NewQuiz{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
	}
	if out.Name == "" {
		return NewQuiz{}, invalid("name", "is required")
	}
	if out.Category == "" {
		return NewQuiz{}, invalid("category", "is required")
	}
	if strings.TrimSpace(in.Difficulty) == "" {
		return NewQuiz{}, invalid("difficulty", "is required")
	}
	difficulty, ok := ParseDifficulty(in.Difficulty)
	if !ok {
		return NewQuiz{}, invalid("difficulty", fmt.Sprintf("must be one of %s", strings.Join(Difficulties, ", ")))
	}
	out.Difficulty = difficulty
	if len(in.Questions) == 0 {
		return NewQuiz{}, invalid("questions", "at least one question is required")
	}

	questions := make([]AuthoredQuestion, len(in.Questions))
	copy(questions, in.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
	for i := range questions {
		if err := ValidateAuthoredQuestion(questions[i]); err != nil {
			return NewQuiz{}, fmt.Errorf("question %d: %w", i+1, err)
		}
		answers := make([]Answer, len(questions[i].Answers))
		copy(answers, questions[i].Answers)
		questions[i].Answers = answers
		questions[i].QuestionText = strings.TrimSpace(questions[i].QuestionText)
		questions[i].Order = i + 1
	}
	out.Questions = questions
	return out, nil
}

// ValidateAuthoredQuestion requires question text and exactly one answer
// flagged correct whose text is not blank.
func ValidateAuthoredQuestion(q AuthoredQuestion) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return invalid("questionText", "is required")
	}
	correct := 0
	for _, a := range q.Answers {
		if !a.IsCorrect {
			continue
		}
		correct++
		if strings.TrimSpace(a.Text) == "" {
			return invalid("answers", "the correct answer needs text")
		}
	}
	switch {
	case correct == 0:
		return &ValidationError{Field: "answers", Reason: ErrNoCorrectAnswer.Error()}
	case correct > 1:
		return invalid("answers", "exactly one answer must be marked correct")
	}
	return nil
}

// ValidateFixedChallenge guards seeded data.
func ValidateFixedChallenge(c FixedChallenge) error {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		return invalid("id", "is required")
	}
	if strings.HasPrefix(id, AuthoredIDPrefix) {
		return fmt.Errorf("%q: %w", id, ErrReservedID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "is required")
	}
	for i, q := range c.Questions {
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Choices) {
			return fmt.Errorf("question %d: %w", i+1, invalid("correctAnswerIndex", "out of range"))
		}
	}
	return nil
}
