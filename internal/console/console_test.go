package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"trivia-service/internal/domain"
)

type fakeAPI struct {
	challenges []domain.ChallengeSummary
	questions  map[string][]domain.Question
	scores     map[string]float64
	created    []domain.NewQuiz
	createErrs []error
	fetched    []string
}

func (f *fakeAPI) ListChallenges(context.Context) ([]domain.ChallengeSummary, error) {
	return f.challenges, nil
}

func (f *fakeAPI) Questions(_ context.Context, id, difficulty string) ([]domain.Question, error) {
	f.fetched = append(f.fetched, id+"/"+difficulty)
	qs, ok := f.questions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return domain.FilterByDifficulty(qs, difficulty), nil
}

func (f *fakeAPI) Leaderboard(_ context.Context, id string) ([]domain.LeaderboardEntry, error) {
	return []domain.LeaderboardEntry{{Username: "you", Score: f.scores[id]}}, nil
}

func (f *fakeAPI) SubmitScore(_ context.Context, id string, score float64) (string, error) {
	if f.scores == nil {
		f.scores = map[string]float64{}
	}
	f.scores[id] = score
	return "s-1", nil
}

func (f *fakeAPI) CreateQuiz(_ context.Context, quiz domain.NewQuiz) (string, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return "", err
	}
	f.created = append(f.created, quiz)
	return "quiz_new", nil
}

func newFake() *fakeAPI {
	return &fakeAPI{
		challenges: []domain.ChallengeSummary{
			{ID: "general", Name: "General", QuestionCount: 2},
			{ID: "quiz_1", Name: "Mine", IsCustom: true, Difficulty: "Normal", QuestionCount: 1},
		},
		questions: map[string][]domain.Question{
			"general": {
				{Question: "2 + 2?", Choices: []string{"3", "4"}, CorrectAnswerIndex: 1, Difficulty: "Normal"},
				{Question: "Red planet?", Choices: []string{"Mars", "Venus"}, CorrectAnswerIndex: 0, Difficulty: "Normal"},
			},
			"quiz_1": {
				{Question: "Capital of Peru?", Choices: []string{"Lima", "Cusco"}, CorrectAnswerIndex: 0},
			},
		},
	}
}

func TestPlayFixedChallenge(t *testing.T) {
	api := newFake()
	var out bytes.Buffer
	// challenge 1, bad difficulty then Normal, answers 2 (right) and 2 (wrong)
	in := strings.NewReader("1\nimpossible\nnormal\n2\n2\n")

	if err := New(api, in, &out).Play(context.Background()); err != nil {
		t.Fatalf("play: %v", err)
	}
	if api.fetched[0] != "general/Normal" {
		t.Fatalf("unexpected fetch %v", api.fetched)
	}
	if api.scores["general"] != 1 {
		t.Fatalf("expected score 1, got %v", api.scores)
	}
	for _, want := range []string{"Unknown difficulty", "Correct!", "the answer was Mars", "You scored 1/2"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPlayAuthoredSkipsDifficulty(t *testing.T) {
	api := newFake()
	var out bytes.Buffer
	if err := New(api, strings.NewReader("2\n1\n"), &out).Play(context.Background()); err != nil {
		t.Fatalf("play: %v", err)
	}
	if api.fetched[0] != "quiz_1/" || api.scores["quiz_1"] != 1 {
		t.Fatalf("fetched=%v scores=%v", api.fetched, api.scores)
	}
}

func TestPlayEmptyAndFailure(t *testing.T) {
	api := newFake()
	var out bytes.Buffer
	if err := New(api, strings.NewReader("1\nHard\n"), &out).Play(context.Background()); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "no questions") || len(api.scores) != 0 {
		t.Fatalf("expected empty message and no score, got %q", out.String())
	}

	api.challenges = []domain.ChallengeSummary{{ID: "gone", Name: "Gone", IsCustom: true}}
	if err := New(api, strings.NewReader("1\n"), &out).Play(context.Background()); err == nil {
		t.Fatalf("expected load failure to surface")
	}
}

func TestCreateRetriesAfterFailure(t *testing.T) {
	api := newFake()
	api.createErrs = []error{errors.New("network down")}
	input := strings.Join([]string{
		"Capitals", "Geography", "normal", "1",
		"Capital of France?", "Lyon", "Paris", "", "2",
		"y",
	}, "\n") + "\n"
	var out bytes.Buffer

	if err := New(api, strings.NewReader(input), &out).Create(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(api.created) != 1 {
		t.Fatalf("expected one created quiz, got %d", len(api.created))
	}
	q := api.created[0]
	if q.Name != "Capitals" || q.Difficulty != domain.DifficultyNormal || !q.Questions[0].Answers[1].IsCorrect {
		t.Fatalf("unexpected quiz %+v", q)
	}
	if !strings.Contains(out.String(), "Quiz created: quiz_new") {
		t.Fatalf("missing confirmation:\n%s", out.String())
	}
}

func TestCreateGivesUpWithoutRetry(t *testing.T) {
	api := newFake()
	api.createErrs = []error{errors.New("network down")}
	input := "Q\nCat\nHard\n1\nText\nA\n\n1\nn\n"

	err := New(api, strings.NewReader(input), &bytes.Buffer{}).Create(context.Background())
	if err == nil || !strings.Contains(err.Error(), "network down") {
		t.Fatalf("expected submission error, got %v", err)
	}
}
