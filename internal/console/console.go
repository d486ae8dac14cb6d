// Package console drives the play and authoring flows from a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trivia-service/internal/domain"
	"trivia-service/internal/flow"
)

// API is the subset of the HTTP client the console needs.
type API interface {
	ListChallenges(ctx context.Context) ([]domain.ChallengeSummary, error)
	Questions(ctx context.Context, challengeID, difficulty string) ([]domain.Question, error)
	Leaderboard(ctx context.Context, challengeID string) ([]domain.LeaderboardEntry, error)
	SubmitScore(ctx context.Context, challengeID string, score float64) (string, error)
	CreateQuiz(ctx context.Context, quiz domain.NewQuiz) (string, error)
}

type Console struct {
	api API
	in  *bufio.Scanner
	out io.Writer
}

func New(api API, in io.Reader, out io.Writer) *Console {
	return &Console{api: api, in: bufio.NewScanner(in), out: out}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// prompt prints label and returns the next trimmed input line.
func (c *Console) prompt(label string) (string, error) {
	c.printf("%s", label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// promptIndex asks for a 1-based number in [1, n] until one is given and
// returns it 0-based.
func (c *Console) promptIndex(label string, n int) (int, error) {
	for {
		raw, err := c.prompt(label)
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(raw)
		if err == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		c.printf("Enter a number between 1 and %d.\n", n)
	}
}

// Play runs one quiz from challenge selection to score submission.
func (c *Console) Play(ctx context.Context) error {
	challenges, err := c.api.ListChallenges(ctx)
	if err != nil {
		return fmt.Errorf("list challenges: %w", err)
	}
	if len(challenges) == 0 {
		c.printf("No challenges available.\n")
		return nil
	}
	for i, ch := range challenges {
		tag := ""
		if ch.IsCustom {
			tag = fmt.Sprintf(" [custom, %s]", ch.Difficulty)
		}
		c.printf("%2d. %s (%d questions)%s\n", i+1, ch.Name, ch.QuestionCount, tag)
	}
	pick, err := c.promptIndex("Challenge: ", len(challenges))
	if err != nil {
		return err
	}

	p, cmd, err := flow.NewPlay().SelectChallenge(challenges[pick])
	if err != nil {
		return err
	}
	if p.Stage() == flow.SelectDifficulty {
		for {
			label, err := c.prompt(fmt.Sprintf("Difficulty (%s): ", strings.Join(domain.Difficulties, "/")))
			if err != nil {
				return err
			}
			next, nextCmd, err := p.SelectDifficulty(label)
			if domain.IsValidation(err) {
				c.printf("Unknown difficulty.\n")
				continue
			}
			if err != nil {
				return err
			}
			p, cmd = next, nextCmd
			break
		}
	}

	for {
		switch command := cmd.(type) {
		case flow.FetchQuestions:
			questions, err := c.api.Questions(ctx, command.ChallengeID, command.Difficulty)
			if err != nil {
				p, cmd, _ = p.LoadFailed(err)
			} else {
				p, cmd, _ = p.QuestionsLoaded(questions)
			}
			continue
		case flow.ReportScore:
			return c.report(ctx, command)
		}

		switch p.Stage() {
		case flow.Empty:
			c.printf("This challenge has no questions for that difficulty.\n")
			return nil
		case flow.Failed:
			return fmt.Errorf("load questions: %w", p.Err())
		case flow.Answering:
			if p, cmd, err = c.ask(p); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected play stage %s", p.Stage())
		}
	}
}

func (c *Console) ask(p flow.Play) (flow.Play, flow.Command, error) {
	q, _ := p.Current()
	c.printf("\nQuestion %d/%d: %s\n", p.Index()+1, p.QuestionCount(), q.Question)
	for i, choice := range q.Choices {
		c.printf("  %d) %s\n", i+1, choice)
	}
	choice, err := c.promptIndex("Answer: ", len(q.Choices))
	if err != nil {
		return p, nil, err
	}
	if p, _, err = p.Choose(choice); err != nil {
		return p, nil, err
	}
	if p, _, err = p.Submit(); err != nil {
		return p, nil, err
	}
	if p.LastCorrect() {
		c.printf("Correct!\n")
	} else if q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < len(q.Choices) {
		c.printf("Wrong, the answer was %s.\n", q.Choices[q.CorrectAnswerIndex])
	}
	return p.Next()
}

func (c *Console) report(ctx context.Context, r flow.ReportScore) error {
	c.printf("\nYou scored %d/%d.\n", r.Tally.Correct, r.Tally.Total)
	if _, err := c.api.SubmitScore(ctx, r.ChallengeID, float64(r.Tally.Correct)); err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	entries, err := c.api.Leaderboard(ctx, r.ChallengeID)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}
	c.printf("Leaderboard:\n")
	for i, e := range entries {
		c.printf("%2d. %-20s %g\n", i+1, e.Username, e.Score)
	}
	return nil
}

// Create walks the author through setup and question entry, then submits.
func (c *Console) Create(ctx context.Context) error {
	a := flow.NewAuthor()
	for a.Stage() == flow.Setup {
		name, err := c.prompt("Quiz name: ")
		if err != nil {
			return err
		}
		category, err := c.prompt("Category: ")
		if err != nil {
			return err
		}
		difficulty, err := c.prompt(fmt.Sprintf("Difficulty (%s): ", strings.Join(domain.Difficulties, "/")))
		if err != nil {
			return err
		}
		rawCount, err := c.prompt("Number of questions: ")
		if err != nil {
			return err
		}
		count, _ := strconv.Atoi(rawCount)
		next, _, err := a.Configure(name, category, difficulty, count)
		if err != nil {
			if !domain.IsValidation(err) {
				return err
			}
			c.printf("%v\n", err)
			continue
		}
		a = next
	}

	var cmd flow.Command
	for a.Stage() == flow.Entering {
		q, err := c.readQuestion(a.Position(), a.Count())
		var (
			next    flow.Author
			nextCmd flow.Command
		)
		if err == nil {
			next, nextCmd, err = a.AddQuestion(q)
		}
		if err != nil {
			if !domain.IsValidation(err) {
				return err
			}
			c.printf("%v\n", err)
			continue
		}
		a, cmd = next, nextCmd
	}

	for {
		submit, ok := cmd.(flow.SubmitQuiz)
		if !ok {
			return fmt.Errorf("unexpected author stage %s", a.Stage())
		}
		id, err := c.api.CreateQuiz(ctx, submit.Quiz)
		if err == nil {
			a, _, _ = a.Submitted(id)
			c.printf("Quiz created: %s\n", a.QuizID())
			return nil
		}
		a, _, _ = a.SubmitFailed(err)
		c.printf("Could not create quiz: %v\n", err)
		answer, perr := c.prompt("Retry? [y/N]: ")
		if perr != nil || !strings.EqualFold(answer, "y") {
			return a.Err()
		}
		a, cmd, _ = a.Retry()
	}
}

// readQuestion reads the text, answers until a blank line and the number
// of the correct answer.
func (c *Console) readQuestion(pos, total int) (domain.AuthoredQuestion, error) {
	text, err := c.prompt(fmt.Sprintf("\nQuestion %d/%d: ", pos, total))
	if err != nil {
		return domain.AuthoredQuestion{}, err
	}
	q := domain.AuthoredQuestion{QuestionText: text}
	for {
		ans, err := c.prompt(fmt.Sprintf("  Answer %d (blank to finish): ", len(q.Answers)+1))
		if err != nil {
			return domain.AuthoredQuestion{}, err
		}
		if ans == "" {
			break
		}
		q.Answers = append(q.Answers, domain.Answer{Text: ans})
	}
	if len(q.Answers) == 0 {
		return domain.AuthoredQuestion{}, &domain.ValidationError{Field: "answers", Reason: "at least one is required"}
	}
	correct, err := c.promptIndex("  Correct answer number: ", len(q.Answers))
	if err != nil {
		return domain.AuthoredQuestion{}, err
	}
	q.Answers[correct].IsCorrect = true
	return q, nil
}
