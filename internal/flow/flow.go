// Package flow holds the client-side quiz-taking and quiz-authoring state
// machines. States are immutable values: every transition returns the next
// state, an optional Command for the caller to execute, and an error when
// the transition is not allowed from the current state.
package flow

import (
	"errors"
	"fmt"

	"trivia-service/internal/domain"
)

// ErrIllegalTransition is returned when an event does not apply to the
// current state. The state is left unchanged.
var ErrIllegalTransition = errors.New("illegal transition")

func illegal(event string, stage fmt.Stringer) error {
	return fmt.Errorf("%w: %s while %s", ErrIllegalTransition, event, stage)
}

// Command is a side effect requested by a transition.
type Command interface {
	command()
}

// FetchQuestions asks the caller to load questions and report back with
// Play.QuestionsLoaded or Play.LoadFailed.
type FetchQuestions struct {
	ChallengeID string
	Difficulty  string
}

// ReportScore asks the caller to submit the final tally.
type ReportScore struct {
	ChallengeID string
	Tally       Tally
}

// SubmitQuiz asks the caller to create the quiz and report back with
// Author.Submitted or Author.SubmitFailed.
type SubmitQuiz struct {
	Quiz domain.NewQuiz
}

func (FetchQuestions) command() {}
func (ReportScore) command()    {}
func (SubmitQuiz) command()     {}
