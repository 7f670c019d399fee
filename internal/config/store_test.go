package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

func TestNewStoreUsesEnvConfigPath(t *testing.T) {
	t.Setenv(envConfigPath, "/tmp/custom-cheftonic-config.json")
	store, err := NewStore()
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	if store.Path() != "/tmp/custom-cheftonic-config.json" {
		t.Fatalf("expected env path, got %q", store.Path())
	}
}

func TestNewStoreDefaultsUnderHome(t *testing.T) {
	t.Setenv(envConfigPath, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	store, err := NewStoreAt("")
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	if want := filepath.Join(home, ".cheftonic", "config.json"); store.Path() != want {
		t.Fatalf("expected %q, got %q", want, store.Path())
	}

	explicit, err := NewStoreAt("/tmp/explicit.json")
	if err != nil || explicit.Path() != "/tmp/explicit.json" {
		t.Fatalf("expected explicit path, got %q err=%v", explicit.Path(), err)
	}
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")
	store := &Store{path: path}

	input := domain.Config{
		Profiles: []domain.Profile{
			{
				Name:          "default",
				IsDefault:     true,
				RestaurantKey: "0a1b2c3d-0000-4000-8000-00000000abcd.1",
				Contact:       domain.Contact{Name: "Ana", Email: "ana@example.com", Phone: "654321123"},
				Locale:        "es",
				Timezone:      "Europe/Madrid",
			},
		},
	}
	if err := store.Save(context.Background(), input); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected owner-only permissions, got %v", info.Mode().Perm())
	}

	output, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(output.Profiles) != 1 || output.Profiles[0] != input.Profiles[0] {
		t.Fatalf("unexpected roundtrip config: %+v", output)
	}
}

func TestStoreLoadMissingConfig(t *testing.T) {
	store := &Store{path: filepath.Join(t.TempDir(), "missing.json")}
	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestStoreLoadInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"syntax":      "{",
		"no profiles": `{"profiles":[]}`,
		"unnamed":     `{"profiles":[{"name":" "}]}`,
	}
	for name, payload := range cases {
		path := filepath.Join(t.TempDir(), "invalid.json")
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatalf("write invalid config: %v", err)
		}
		store := &Store{path: path}
		_, err := store.Load(context.Background())
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestStoreSaveRejectsEmptyProfiles(t *testing.T) {
	store := &Store{path: filepath.Join(t.TempDir(), "config.json")}
	err := store.Save(context.Background(), domain.Config{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
