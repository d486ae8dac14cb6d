package flow

import (
	"fmt"

	"trivia-service/internal/domain"
)

type PlayStage int

const (
	SelectCategory PlayStage = iota
	SelectDifficulty
	Loading
	Answering
	Submitted
	Finished
	Empty
	Failed
)

func (s PlayStage) String() string {
	switch s {
	case SelectCategory:
		return "select-category"
	case SelectDifficulty:
		return "select-difficulty"
	case Loading:
		return "loading"
	case Answering:
		return "answering"
	case Submitted:
		return "submitted"
	case Finished:
		return "finished"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Tally counts answered and correctly answered questions.
type Tally struct {
	Correct int
	Total   int
}

// Play is the quiz-taking state machine.
type Play struct {
	stage       PlayStage
	challenge   domain.ChallengeSummary
	difficulty  string
	questions   []domain.Question
	index       int
	selected    int
	lastCorrect bool
	tally       Tally
	failure     error
}

func NewPlay() Play {
	return Play{stage: SelectCategory, selected: -1}
}

func (p Play) Stage() PlayStage                   { return p.stage }
func (p Play) Challenge() domain.ChallengeSummary { return p.challenge }
func (p Play) Difficulty() string                 { return p.difficulty }
func (p Play) Tally() Tally                       { return p.tally }
func (p Play) Index() int                         { return p.index }
func (p Play) QuestionCount() int                 { return len(p.questions) }
func (p Play) Selected() int                      { return p.selected }
func (p Play) LastCorrect() bool                  { return p.lastCorrect }
func (p Play) Err() error                         { return p.failure }

// Current returns the question being answered or just submitted.
func (p Play) Current() (domain.Question, bool) {
	if (p.stage != Answering && p.stage != Submitted) || p.index >= len(p.questions) {
		return domain.Question{}, false
	}
	return p.questions[p.index], true
}

// SelectChallenge picks the challenge. Authored quizzes skip the difficulty
// step and load right away.
func (p Play) SelectChallenge(c domain.ChallengeSummary) (Play, Command, error) {
	if p.stage != SelectCategory {
		return p, nil, illegal("select challenge", p.stage)
	}
	if c.ID == "" {
		return p, nil, &domain.ValidationError{Field: "challenge", Reason: "is required"}
	}
	p.challenge = c
	if c.IsCustom {
		p.stage = Loading
		return p, FetchQuestions{ChallengeID: c.ID}, nil
	}
	p.stage = SelectDifficulty
	return p, nil, nil
}

func (p Play) SelectDifficulty(label string) (Play, Command, error) {
	if p.stage != SelectDifficulty {
		return p, nil, illegal("select difficulty", p.stage)
	}
	d, ok := domain.ParseDifficulty(label)
	if !ok {
		return p, nil, &domain.ValidationError{Field: "difficulty", Reason: "unknown label"}
	}
	p.difficulty = d
	p.stage = Loading
	return p, FetchQuestions{ChallengeID: p.challenge.ID, Difficulty: d}, nil
}

// QuestionsLoaded starts the quiz, or ends in Empty when nothing came back.
func (p Play) QuestionsLoaded(questions []domain.Question) (Play, Command, error) {
	if p.stage != Loading {
		return p, nil, illegal("questions loaded", p.stage)
	}
	if len(questions) == 0 {
		p.stage = Empty
		return p, nil, nil
	}
	p.questions = append([]domain.Question(nil), questions...)
	p.index = 0
	p.selected = -1
	p.stage = Answering
	return p, nil, nil
}

func (p Play) LoadFailed(err error) (Play, Command, error) {
	if p.stage != Loading {
		return p, nil, illegal("load failed", p.stage)
	}
	p.failure = err
	p.stage = Failed
	return p, nil, nil
}

// Choose marks a choice. It may change until the answer is submitted.
func (p Play) Choose(choice int) (Play, Command, error) {
	if p.stage != Answering {
		return p, nil, illegal("choose", p.stage)
	}
	if choice < 0 || choice >= len(p.questions[p.index].Choices) {
		return p, nil, &domain.ValidationError{Field: "choice", Reason: "out of range"}
	}
	p.selected = choice
	return p, nil, nil
}

// Submit locks in the selected choice and updates the tally.
func (p Play) Submit() (Play, Command, error) {
	if p.stage != Answering {
		return p, nil, illegal("submit", p.stage)
	}
	if p.selected < 0 {
		return p, nil, &domain.ValidationError{Field: "choice", Reason: "nothing selected"}
	}
	p.lastCorrect = p.selected == p.questions[p.index].CorrectAnswerIndex
	p.tally.Total++
	if p.lastCorrect {
		p.tally.Correct++
	}
	p.stage = Submitted
	return p, nil, nil
}

// Next moves to the following question, or finishes and asks for the score
// to be reported.
func (p Play) Next() (Play, Command, error) {
	if p.stage != Submitted {
		return p, nil, illegal("next", p.stage)
	}
	if p.index+1 < len(p.questions) {
		p.index++
		p.selected = -1
		p.stage = Answering
		return p, nil, nil
	}
	p.stage = Finished
	return p, ReportScore{ChallengeID: p.challenge.ID, Tally: p.tally}, nil
}
