// Package client is a typed HTTP client for the trivia API. Every call
// either returns data or an error; a failed read never looks like an empty
// result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trivia-service/internal/domain"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token sent on protected calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListChallenges(ctx context.Context) ([]domain.ChallengeSummary, error) {
	var out []domain.ChallengeSummary
	err := c.do(ctx, http.MethodGet, "/api/challenges", nil, &out)
	return out, err
}

// Questions fetches a challenge's questions. difficulty may be empty.
func (c *Client) Questions(ctx context.Context, challengeID, difficulty string) ([]domain.Question, error) {
	path := "/api/questions/" + url.PathEscape(challengeID)
	if difficulty != "" {
		path += "?" + url.Values{"difficulty": {difficulty}}.Encode()
	}
	var out []domain.Question
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, challengeID string) ([]domain.LeaderboardEntry, error) {
	var out []domain.LeaderboardEntry
	err := c.do(ctx, http.MethodGet, "/api/leaderboard/"+url.PathEscape(challengeID), nil, &out)
	return out, err
}

// SubmitScore records a score and returns the new score id.
func (c *Client) SubmitScore(ctx context.Context, challengeID string, score float64) (string, error) {
	var out struct {
		ScoreID string `json:"scoreId"`
	}
	body := map[string]any{"challengeId": challengeID, "score": score}
	if err := c.do(ctx, http.MethodPost, "/api/score", body, &out); err != nil {
		return "", err
	}
	return out.ScoreID, nil
}

// CreateQuiz stores an authored quiz and returns its id.
func (c *Client) CreateQuiz(ctx context.Context, quiz domain.NewQuiz) (string, error) {
	var out struct {
		QuizID string `json:"quizId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/quiz", quiz, &out); err != nil {
		return "", err
	}
	return out.QuizID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
