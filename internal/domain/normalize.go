package domain

import (
	"fmt"
	"strings"
)

// Normalize maps an authored question into the canonical shape. The correct
// index is the position of the first answer flagged correct; a question with
// none yields ErrNoCorrectAnswer. The input is not modified.
func Normalize(q AuthoredQuestion) (Question, error) {
	choices := make([]string, len(q.Answers))
	correct := -1
	for i, a := range q.Answers {
		choices[i] = a.Text
		if correct < 0 && a.IsCorrect {
			correct = i
		}
	}
	if correct < 0 {
		return Question{}, ErrNoCorrectAnswer
	}
	return Question{
		Question:           q.QuestionText,
		Choices:            choices,
		CorrectAnswerIndex: correct,
	}, nil
}

// NormalizeAll normalizes every question, failing on the first invalid one.
func NormalizeAll(questions []AuthoredQuestion) ([]Question, error) {
	out := make([]Question, 0, len(questions))
	for i, q := range questions {
		nq, err := Normalize(q)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, nq)
	}
	return out, nil
}

// FilterByDifficulty keeps the questions whose difficulty equals the requested
// label. An empty label returns the input unchanged.
func FilterByDifficulty(questions []Question, difficulty string) []Question {
	if difficulty == "" {
		return questions
	}
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}

// Difficulty labels offered by the front-end.
const (
	DifficultyBeginner = "Beginner"
	DifficultyNormal   = "Normal"
	DifficultyHard     = "Hard"
	DifficultyExtreme  = "Extreme"
)

// Difficulties lists the labels in display order.
var Difficulties = []string{DifficultyBeginner, DifficultyNormal, DifficultyHard, DifficultyExtreme}

// ParseDifficulty resolves a label case-insensitively.
func ParseDifficulty(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, d := range Difficulties {
		if strings.EqualFold(d, raw) {
			return d, true
		}
	}
	return "", false
}
