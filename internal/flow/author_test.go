package flow

import (
	"errors"
	"testing"

	"trivia-service/internal/domain"
)

func question(text string, correct int, answers ...string) domain.AuthoredQuestion {
	q := domain.AuthoredQuestion{QuestionText: text}
	for i, a := range answers {
		q.Answers = append(q.Answers, domain.Answer{Text: a, IsCorrect: i == correct})
	}
	return q
}

func TestAuthorHappyPath(t *testing.T) {
	a, _, err := NewAuthor().Configure("Capitals", "Geography", "normal", 2)
	if err != nil || a.Stage() != Entering || a.Position() != 1 {
		t.Fatalf("configure: stage=%s err=%v", a.Stage(), err)
	}

	a, cmd, err := a.AddQuestion(question("Capital of France?", 1, "Lyon", "Paris"))
	if err != nil || cmd != nil || a.Position() != 2 {
		t.Fatalf("first question: cmd=%v err=%v", cmd, err)
	}
	a, cmd, err = a.AddQuestion(question("Capital of Japan?", 0, "Tokyo", "Osaka"))
	if err != nil || a.Stage() != Submitting {
		t.Fatalf("second question: stage=%s err=%v", a.Stage(), err)
	}
	submit, ok := cmd.(SubmitQuiz)
	if !ok {
		t.Fatalf("expected submit command, got %#v", cmd)
	}
	if submit.Quiz.Difficulty != domain.DifficultyNormal || len(submit.Quiz.Questions) != 2 || submit.Quiz.Questions[1].Order != 2 {
		t.Fatalf("unexpected quiz %+v", submit.Quiz)
	}

	a, _, _ = a.Submitted("quiz_1")
	if a.Stage() != Complete || a.QuizID() != "quiz_1" {
		t.Fatalf("expected complete, got %s", a.Stage())
	}
}

func TestAuthorKeepsDataOnFailure(t *testing.T) {
	a, _, _ := NewAuthor().Configure("Capitals", "Geography", "Hard", 1)
	a, _, _ = a.AddQuestion(question("Capital of Peru?", 0, "Lima", "Cusco"))

	failed, _, _ := a.SubmitFailed(errors.New("network down"))
	if failed.Stage() != SubmitError || failed.Err() == nil {
		t.Fatalf("expected failure state, got %s", failed.Stage())
	}
	if len(failed.Questions()) != 1 || failed.Quiz().Name != "Capitals" {
		t.Fatalf("entered data lost: %+v", failed.Quiz())
	}

	retry, cmd, err := failed.Retry()
	if err != nil || retry.Stage() != Submitting {
		t.Fatalf("retry: stage=%s err=%v", retry.Stage(), err)
	}
	if submit, ok := cmd.(SubmitQuiz); !ok || submit.Quiz.Questions[0].QuestionText != "Capital of Peru?" {
		t.Fatalf("expected resubmission, got %#v", cmd)
	}
}

func TestAuthorValidation(t *testing.T) {
	setup := NewAuthor()
	for name, args := range map[string]struct {
		name, category, difficulty string
		count                      int
	}{
		"no name":        {"", "Geo", "Normal", 1},
		"no category":    {"Quiz", " ", "Normal", 1},
		"bad difficulty": {"Quiz", "Geo", "Impossible", 1},
		"zero count":     {"Quiz", "Geo", "Normal", 0},
	} {
		if _, _, err := setup.Configure(args.name, args.category, args.difficulty, args.count); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}

	a, _, _ := setup.Configure("Quiz", "Geo", "Normal", 1)
	if _, _, err := a.AddQuestion(question("No correct", -1, "a", "b")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, _, err := a.AddQuestion(question("", 0, "a")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank text, got %v", err)
	}
	if _, _, err := a.Retry(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("retry while entering: %v", err)
	}
}
