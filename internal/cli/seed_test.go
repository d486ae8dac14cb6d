package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func TestSeedCatalogFromBundledFile(t *testing.T) {
	store := memory.NewStore()
	n, err := seedCatalog(context.Background(), store, filepath.Join("..", "..", "config", "challenges.yaml"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	fixed, _ := store.ListFixed(context.Background())
	if n == 0 || len(fixed) != n {
		t.Fatalf("seeded %d, listed %d", n, len(fixed))
	}
	if fixed[0].ID != "general" || len(fixed[0].Questions) == 0 {
		t.Fatalf("unexpected first challenge %+v", fixed[0])
	}
}

func TestSeedCatalogRejectsBeforeWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := `challenges:
  - id: ok
    name: Fine
    questions: []
  - id: quiz_taken
    name: Reserved
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := memory.NewStore()
	_, err := seedCatalog(context.Background(), store, path)
	if !errors.Is(err, domain.ErrReservedID) {
		t.Fatalf("expected reserved id error, got %v", err)
	}
	if fixed, _ := store.ListFixed(context.Background()); len(fixed) != 0 {
		t.Fatalf("nothing should be written, got %d", len(fixed))
	}
}

func TestSeedCatalogNeedsPath(t *testing.T) {
	if _, err := seedCatalog(context.Background(), memory.NewStore(), ""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
