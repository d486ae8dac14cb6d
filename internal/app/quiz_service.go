package app

import (
	"context"
	"errors"
	"strings"

	"trivia-service/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog abstracts the document store holding both challenge collections.
type Catalog interface {
	ListFixed(ctx context.Context) ([]domain.FixedChallenge, error)
	ListAuthored(ctx context.Context) ([]domain.AuthoredQuiz, error)
	// CreateAuthored persists a new quiz and returns it with the
	// server-assigned creation time.
	CreateAuthored(ctx context.Context, quiz domain.AuthoredQuiz) (domain.AuthoredQuiz, error)
}

// ChallengeLoader resolves one id, fixed challenges first, then authored
// quizzes. Unknown ids yield domain.ErrChallengeNotFound.
type ChallengeLoader interface {
	LoadChallenge(ctx context.Context, id string) (domain.StoredChallenge, error)
}

// QuizService implements the challenge listing, question fetch and quiz
// creation use cases.
type QuizService struct {
	catalog Catalog
	loader  ChallengeLoader
	newID   func() string
	log     *zap.Logger
}

func NewQuizService(catalog Catalog, loader ChallengeLoader, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		catalog: catalog,
		loader:  loader,
		newID:   func() string { return domain.AuthoredIDPrefix + uuid.NewString() },
		log:     log,
	}
}

// ListChallenges merges fixed challenges and authored quizzes, fixed first,
// each in store order.
func (s *QuizService) ListChallenges(ctx context.Context) ([]domain.ChallengeSummary, error) {
	var (
		fixed    []domain.FixedChallenge
		authored []domain.AuthoredQuiz
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fixed, err = s.catalog.ListFixed(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		authored, err = s.catalog.ListAuthored(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.ChallengeSummary, 0, len(fixed)+len(authored))
	for _, c := range fixed {
		out = append(out, domain.FromFixed(c).Summary())
	}
	for _, q := range authored {
		out = append(out, domain.FromAuthored(q).Summary())
	}
	return out, nil
}

// GetQuestions returns the canonical questions of a challenge. The difficulty
// filter applies to fixed challenges only.
func (s *QuizService) GetQuestions(ctx context.Context, challengeID, difficulty string) ([]domain.Question, error) {
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return nil, domain.ErrChallengeNotFound
	}
	challenge, err := s.loader.LoadChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	questions, err := challenge.CanonicalQuestions(strings.TrimSpace(difficulty))
	if err != nil {
		if errors.Is(err, domain.ErrNoCorrectAnswer) {
			s.log.Warn("stored quiz has a question without a correct answer",
				zap.String("challenge_id", challengeID), zap.Error(err))
		}
		return nil, err
	}
	return questions, nil
}

// CreateQuiz validates and stores a user-authored quiz.
func (s *QuizService) CreateQuiz(ctx context.Context, in domain.NewQuiz, creator domain.Identity) (domain.AuthoredQuiz, error) {
	if creator.UID == "" {
		return domain.AuthoredQuiz{}, domain.ErrUnauthenticated
	}
	clean, err := domain.ValidateNewQuiz(in)
	if err != nil {
		return domain.AuthoredQuiz{}, err
	}

	quiz, err := s.catalog.CreateAuthored(ctx, domain.AuthoredQuiz{
		ID:         s.newID(),
		Name:       clean.Name,
		Category:   clean.Category,
		Difficulty: clean.Difficulty,
		CreatorUID: creator.UID,
		Questions:  clean.Questions,
	})
	if err != nil {
		return domain.AuthoredQuiz{}, err
	}
	quizzesCreated.Inc()
	s.log.Info("quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("creator_uid", quiz.CreatorUID),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}
