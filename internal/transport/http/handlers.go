package http

import (
	"net/http"
	"strings"

	"trivia-service/internal/auth"
	"trivia-service/internal/domain"

	"github.com/gorilla/mux"
)

type scoreRequest struct {
	ChallengeID string   `json:"challengeId"`
	Score       *float64 `json:"score"`
}

func (a *API) listChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := a.quizzes.ListChallenges(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

func (a *API) getQuestions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["challengeId"]
	questions, err := a.quizzes.GetQuestions(r.Context(), id, r.URL.Query().Get("difficulty"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (a *API) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 0)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	entries, err := a.leaderboard.TopScores(r.Context(), mux.Vars(r)["challengeId"], limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *API) submitScore(w http.ResponseWriter, r *http.Request) {
	who, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		a.writeServiceError(w, r, domain.ErrUnauthenticated)
		return
	}
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if strings.TrimSpace(req.ChallengeID) == "" {
		a.writeServiceError(w, r, &domain.ValidationError{Field: "challengeId", Reason: "is required"})
		return
	}
	if req.Score == nil {
		a.writeServiceError(w, r, &domain.ValidationError{Field: "score", Reason: "is required"})
		return
	}

	record, err := a.leaderboard.SubmitScore(r.Context(), req.ChallengeID, *req.Score, who)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "Score submitted successfully", ScoreID: record.ID})
}

func (a *API) createQuiz(w http.ResponseWriter, r *http.Request) {
	who, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		a.writeServiceError(w, r, domain.ErrUnauthenticated)
		return
	}
	var req domain.NewQuiz
	if err := decodeJSON(r, &req); err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	quiz, err := a.quizzes.CreateQuiz(r.Context(), req, who)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "Quiz created successfully", QuizID: quiz.ID})
}

func (a *API) healthz(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}
