package domain

import (
	"errors"
	"testing"
)

func validQuiz() NewQuiz {
	return NewQuiz{
		Name:       "Capitals",
		Category:   "Geography",
		Difficulty: "normal",
		Questions: []AuthoredQuestion{
			{QuestionText: "Capital of Italy?", Order: 2, Answers: []Answer{{Text: "Rome", IsCorrect: true}, {Text: "Milan"}}},
			{QuestionText: "Capital of Spain?", Order: 1, Answers: []Answer{{Text: "Seville"}, {Text: "Madrid", IsCorrect: true}}},
		},
	}
}

func TestValidateNewQuizCleansInput(t *testing.T) {
	got, err := ValidateNewQuiz(validQuiz())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Difficulty != DifficultyNormal {
		t.Fatalf("difficulty = %q, want %q", got.Difficulty, DifficultyNormal)
	}
	if got.Questions[0].QuestionText != "Capital of Spain?" || got.Questions[0].Order != 1 {
		t.Fatalf("expected questions sorted by order, got %+v", got.Questions)
	}
	if got.Questions[1].Order != 2 {
		t.Fatalf("order = %d, want 2", got.Questions[1].Order)
	}
}

func TestValidateNewQuizRejects(t *testing.T) {
	cases := map[string]func(*NewQuiz){
		"missing name":       func(q *NewQuiz) { q.Name = " " },
		"missing category":   func(q *NewQuiz) { q.Category = "" },
		"missing difficulty": func(q *NewQuiz) { q.Difficulty = "" },
		"unknown difficulty": func(q *NewQuiz) { q.Difficulty = "Impossible" },
		"no questions":       func(q *NewQuiz) { q.Questions = nil },
		"blank question":     func(q *NewQuiz) { q.Questions[0].QuestionText = "" },
		"no correct answer": func(q *NewQuiz) {
			q.Questions[0].Answers = []Answer{{Text: "a"}, {Text: "b"}}
		},
		"two correct answers": func(q *NewQuiz) {
			q.Questions[0].Answers = []Answer{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}}
		},
		"blank correct answer": func(q *NewQuiz) {
			q.Questions[0].Answers = []Answer{{Text: " ", IsCorrect: true}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			q := validQuiz()
			mutate(&q)
			_, err := ValidateNewQuiz(q)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidateFixedChallengeReservedPrefix(t *testing.T) {
	err := ValidateFixedChallenge(FixedChallenge{ID: "quiz_abc", Name: "x"})
	if !errors.Is(err, ErrReservedID) {
		t.Fatalf("expected ErrReservedID, got %v", err)
	}

	err = ValidateFixedChallenge(FixedChallenge{
		ID:        "history",
		Name:      "History",
		Questions: []Question{{Question: "q", Choices: []string{"a"}, CorrectAnswerIndex: 3}},
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error for out of range index, got %v", err)
	}
}
