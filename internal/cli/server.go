package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/config"
	infraredis "trivia-service/internal/infra/redis"
	"trivia-service/internal/logger"
	transport "trivia-service/internal/transport/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the trivia API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
	cmd.Flags().StringVar(port, "port", "", "port to listen on (overrides config and PORT)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	if cfg.Seed.Path != "" {
		n, err := seedCatalog(ctx, b.store, cfg.Seed.Path)
		if err != nil {
			return err
		}
		log.Info("challenges seeded", zap.Int("count", n), zap.String("file", cfg.Seed.Path))
	}

	feed := app.NewFeed()
	lbOpts := []app.LeaderboardOption{app.WithDefaultLimit(cfg.Leaderboard.Limit)}
	if b.redis != nil {
		relay := infraredis.NewFeedRelay(b.redis, feed, log)
		if err := relay.Start(ctx); err != nil {
			return err
		}
		defer relay.Stop()
		lbOpts = append(lbOpts, app.WithBroadcaster(relay))
	}

	if cfg.Auth.Secret == "" {
		log.Warn("auth.secret is empty; score submission and quiz creation will reject every token")
	}
	var verifierOpts []auth.VerifierOption
	if cfg.Auth.Issuer != "" {
		verifierOpts = append(verifierOpts, auth.WithIssuer(cfg.Auth.Issuer))
	}
	if cfg.Auth.Audience != "" {
		verifierOpts = append(verifierOpts, auth.WithAudience(cfg.Auth.Audience))
	}

	quizzes := app.NewQuizService(b.store, b.loader, log)
	leaderboard := app.NewLeaderboardService(b.scores, b.loader, feed, log, lbOpts...)
	api := transport.NewAPI(quizzes, leaderboard, auth.NewJWTVerifier(cfg.Auth.Secret, verifierOpts...), cfg.Server.AllowedOrigins, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	server.RegisterOnShutdown(api.CloseStreams)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting trivia service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
