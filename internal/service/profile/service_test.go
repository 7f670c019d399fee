package profile_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mekedron/cheftonic-cli/internal/config"
	"github.com/mekedron/cheftonic-cli/internal/domain"
	"github.com/mekedron/cheftonic-cli/internal/service/profile"
)

type stubLoader struct {
	cfg domain.Config
	err error
}

func (s *stubLoader) Load(context.Context) (domain.Config, error) {
	if s.err != nil {
		return domain.Config{}, s.err
	}
	return s.cfg, nil
}

func TestResolverFindDefault(t *testing.T) {
	resolver := profile.NewResolver(&stubLoader{cfg: domain.Config{Profiles: []domain.Profile{{Name: "default", IsDefault: true, RestaurantKey: "abc.1"}}}})
	result, err := resolver.Find(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "default" || result.RestaurantKey != "abc.1" {
		t.Fatalf("expected default profile, got %+v", result)
	}
}

func TestResolverFindNamed(t *testing.T) {
	resolver := profile.NewResolver(&stubLoader{cfg: domain.Config{Profiles: []domain.Profile{{Name: "work"}}}})
	result, err := resolver.Find(context.Background(), "WORK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "work" {
		t.Fatalf("expected work profile, got %s", result.Name)
	}
}

func TestResolverFindNotFound(t *testing.T) {
	resolver := profile.NewResolver(&stubLoader{cfg: domain.Config{Profiles: []domain.Profile{{Name: "default", IsDefault: true}}}})
	_, err := resolver.Find(context.Background(), "missing")
	if !errors.Is(err, profile.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestResolveToleratesMissingConfig(t *testing.T) {
	resolver := profile.NewResolver(&stubLoader{err: config.ErrConfigNotFound})
	result, err := resolver.Resolve(context.Background(), "")
	if err != nil || result.Name != "" {
		t.Fatalf("expected empty profile, got %+v err=%v", result, err)
	}
	if _, err := resolver.Resolve(context.Background(), "work"); !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("expected named lookup to fail, got %v", err)
	}

	noDefault := profile.NewResolver(&stubLoader{cfg: domain.Config{Profiles: []domain.Profile{{Name: "work"}}}})
	if _, err := noDefault.Resolve(context.Background(), ""); err != nil {
		t.Fatalf("expected missing default to be tolerated, got %v", err)
	}

	broken := profile.NewResolver(&stubLoader{err: config.ErrInvalidConfig})
	if _, err := broken.Resolve(context.Background(), ""); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected invalid config to surface, got %v", err)
	}
}

func TestNewFileResolverUsesPath(t *testing.T) {
	resolver, err := profile.NewFileResolver(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := resolver.Find(context.Background(), ""); !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}
