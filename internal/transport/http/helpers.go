package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"trivia-service/internal/domain"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type createdResponse struct {
	Message string `json:"message"`
	ScoreID string `json:"scoreId,omitempty"`
	QuizID  string `json:"quizId,omitempty"`
}

func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrChallengeNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "challenge not found"})
	case errors.Is(err, domain.ErrNoCorrectAnswer):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "stored quiz is invalid: " + err.Error()})
	default:
		a.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON reads exactly one JSON object into dst. Decoding problems are
// reported as validation errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.ValidationError{Reason: "request body is required"}
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &domain.ValidationError{Field: typeErr.Field, Reason: fmt.Sprintf("cannot be a JSON %s", typeErr.Value)}
		}
		return &domain.ValidationError{Reason: "request body must be a JSON object"}
	}
	if dec.More() {
		return &domain.ValidationError{Reason: "request body must contain a single JSON object"}
	}
	return nil
}

func parseLimit(r *http.Request, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get("limit"))
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, &domain.ValidationError{Field: "limit", Reason: "must be a positive integer"}
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
