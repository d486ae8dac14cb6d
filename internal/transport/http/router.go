package http

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// API serves the trivia HTTP surface.
type API struct {
	quizzes        *app.QuizService
	leaderboard    *app.LeaderboardService
	verifier       auth.Verifier
	allowedOrigins []string
	log            *zap.Logger
	upgrader       websocket.Upgrader

	closing   chan struct{}
	closeOnce sync.Once
}

func NewAPI(quizzes *app.QuizService, leaderboard *app.LeaderboardService, verifier auth.Verifier, allowedOrigins []string, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	a := &API{
		quizzes:        quizzes,
		leaderboard:    leaderboard,
		verifier:       verifier,
		allowedOrigins: allowedOrigins,
		log:            log,
		closing:        make(chan struct{}),
	}
	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     a.checkOrigin,
	}
	return a
}

// CloseStreams sends a going-away close frame on every open websocket and
// ends its handler. http.Server.Shutdown does not reach hijacked
// connections, so register this with RegisterOnShutdown.
func (a *API) CloseStreams() {
	a.closeOnce.Do(func() { close(a.closing) })
}

// Handler builds the routed, CORS-wrapped handler.
func (a *API) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(instrument)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	router.HandleFunc("/healthz", a.healthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/ws/leaderboard/{challengeId}", a.serveLeaderboardWS).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/challenges", a.listChallenges).Methods(http.MethodGet)
	api.HandleFunc("/questions/{challengeId}", a.getQuestions).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/{challengeId}", a.getLeaderboard).Methods(http.MethodGet)

	scoreGate := auth.Middleware(a.verifier, auth.WithLogger(a.log))
	quizGate := auth.Middleware(a.verifier, auth.WithLogger(a.log), auth.RejectInvalidWith(http.StatusUnauthorized))
	api.Handle("/score", scoreGate(http.HandlerFunc(a.submitScore))).Methods(http.MethodPost)
	api.Handle("/quiz", quizGate(http.HandlerFunc(a.createQuiz))).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedOrigins: a.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}).Handler(router)
}

func (a *API) corsOrigins() []string {
	if len(a.allowedOrigins) == 0 {
		return []string{"*"}
	}
	return a.allowedOrigins
}

// checkOrigin applies the CORS allow-list to websocket upgrades. Requests
// without an Origin header come from non-browser clients and are accepted.
func (a *API) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range a.corsOrigins() {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}
