package cli

import (
	"context"
	"fmt"
	"os"

	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	"trivia-service/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Challenges []domain.FixedChallenge `yaml:"challenges"`
}

// NewSeedCmd loads fixed challenges from a YAML file into the catalog.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert or replace fixed challenges from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("seed needs a postgres url; the in-memory store is seeded at startup from seed.path")
			}
			log := logger.New(cfg.Log)
			defer log.Sync()

			b, err := openBackends(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer b.Close()

			if file == "" {
				file = cfg.Seed.Path
			}
			n, err := seedCatalog(cmd.Context(), b.store, file)
			if err != nil {
				return err
			}
			log.Info("challenges seeded", zap.Int("count", n), zap.String("file", file))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file with a top-level challenges list (defaults to seed.path)")
	return cmd
}

type fixedWriter interface {
	PutFixed(ctx context.Context, c domain.FixedChallenge) error
}

func loadSeedFile(path string) ([]domain.FixedChallenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Challenges, nil
}

// seedCatalog validates every challenge in the file before writing any.
func seedCatalog(ctx context.Context, w fixedWriter, path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("no seed file given")
	}
	challenges, err := loadSeedFile(path)
	if err != nil {
		return 0, err
	}
	for _, c := range challenges {
		if err := domain.ValidateFixedChallenge(c); err != nil {
			return 0, fmt.Errorf("challenge %q: %w", c.ID, err)
		}
	}
	for _, c := range challenges {
		if err := w.PutFixed(ctx, c); err != nil {
			return 0, fmt.Errorf("store challenge %q: %w", c.ID, err)
		}
	}
	return len(challenges), nil
}
