package flow

import (
	"fmt"
	"strings"

	"trivia-service/internal/domain"
)

type AuthorStage int

const (
	Setup AuthorStage = iota
	Entering
	Submitting
	Complete
	SubmitError
)

func (s AuthorStage) String() string {
	switch s {
	case Setup:
		return "setup"
	case Entering:
		return "entering"
	case Submitting:
		return "submitting"
	case Complete:
		return "complete"
	case SubmitError:
		return "submit-failed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Author is the quiz-authoring state machine. Entered data survives a
// failed submission so it can be retried.
type Author struct {
	stage      AuthorStage
	name       string
	category   string
	difficulty string
	count      int
	questions  []domain.AuthoredQuestion
	quizID     string
	failure    error
}

func NewAuthor() Author {
	return Author{stage: Setup}
}

func (a Author) Stage() AuthorStage { return a.stage }
func (a Author) QuizID() string     { return a.quizID }
func (a Author) Err() error         { return a.failure }
func (a Author) Count() int         { return a.count }

// Position is the 1-based number of the question being entered.
func (a Author) Position() int { return len(a.questions) + 1 }

// Questions returns a copy of the questions entered so far.
func (a Author) Questions() []domain.AuthoredQuestion {
	return append([]domain.AuthoredQuestion(nil), a.questions...)
}

// Quiz assembles the quiz from the entered data.
func (a Author) Quiz() domain.NewQuiz {
	return domain.NewQuiz{
		Name:       a.name,
		Category:   a.category,
		Difficulty: a.difficulty,
		Questions:  a.Questions(),
	}
}

// Configure completes the setup step.
func (a Author) Configure(name, category, difficulty string, count int) (Author, Command, error) {
	if a.stage != Setup {
		return a, nil, illegal("configure", a.stage)
	}
	name, category = strings.TrimSpace(name), strings.TrimSpace(category)
	if name == "" {
		return a, nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if category == "" {
		return a, nil, &domain.ValidationError{Field: "category", Reason: "is required"}
	}
	d, ok := domain.ParseDifficulty(difficulty)
	if !ok {
		return a, nil, &domain.ValidationError{Field: "difficulty", Reason: "unknown label"}
	}
	if count <= 0 {
		return a, nil, &domain.ValidationError{Field: "count", Reason: "must be positive"}
	}
	a.name, a.category, a.difficulty, a.count = name, category, d, count
	a.stage = Entering
	return a, nil, nil
}

// AddQuestion records the next question. Adding the last one requests the
// quiz to be submitted.
func (a Author) AddQuestion(q domain.AuthoredQuestion) (Author, Command, error) {
	if a.stage != Entering {
		return a, nil, illegal("add question", a.stage)
	}
	if err := domain.ValidateAuthoredQuestion(q); err != nil {
		return a, nil, err
	}
	q.Answers = append([]domain.Answer(nil), q.Answers...)
	q.Order = len(a.questions) + 1
	a.questions = append(a.Questions(), q)
	if len(a.questions) < a.count {
		return a, nil, nil
	}
	a.stage = Submitting
	return a, SubmitQuiz{Quiz: a.Quiz()}, nil
}

func (a Author) Submitted(quizID string) (Author, Command, error) {
	if a.stage != Submitting {
		return a, nil, illegal("submitted", a.stage)
	}
	a.quizID = quizID
	a.failure = nil
	a.stage = Complete
	return a, nil, nil
}

func (a Author) SubmitFailed(err error) (Author, Command, error) {
	if a.stage != Submitting {
		return a, nil, illegal("submit failed", a.stage)
	}
	a.failure = err
	a.stage = SubmitError
	return a, nil, nil
}

// Retry resubmits the same quiz after a failure.
func (a Author) Retry() (Author, Command, error) {
	if a.stage != SubmitError {
		return a, nil, illegal("retry", a.stage)
	}
	a.stage = Submitting
	return a, SubmitQuiz{Quiz: a.Quiz()}, nil
}
