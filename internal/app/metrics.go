package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoresSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_scores_submitted_total",
		Help: "Score records accepted.",
	})
	quizzesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_quizzes_created_total",
		Help: "User-authored quizzes stored.",
	})
)
