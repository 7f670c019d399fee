package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mekedron/cheftonic-cli/internal/config"
	"github.com/mekedron/cheftonic-cli/internal/domain"
)

var (
	// ErrDefaultProfileNotFound indicates config has no default profile.
	ErrDefaultProfileNotFound = errors.New("no default profile found")
	// ErrProfileNotFound indicates requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
)

// Loader provides config payloads.
type Loader interface {
	Load(ctx context.Context) (domain.Config, error)
}

// Resolver resolves profile names.
type Resolver struct {
	loader Loader
}

// NewResolver creates a profile resolver.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Find resolves explicit profile names or defaults.
func (r *Resolver) Find(ctx context.Context, profileName string) (domain.Profile, error) {
	cfg, err := r.loader.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	if strings.TrimSpace(profileName) == "" {
		for _, profile := range cfg.Profiles {
			if profile.IsDefault {
				return profile, nil
			}
		}
		return domain.Profile{}, ErrDefaultProfileNotFound
	}

	want := strings.ToLower(strings.TrimSpace(profileName))
	for _, profile := range cfg.Profiles {
		if strings.ToLower(profile.Name) == want {
			return profile, nil
		}
	}
	available := make([]string, 0, len(cfg.Profiles))
	for _, profile := range cfg.Profiles {
		available = append(available, profile.Name)
	}
	return domain.Profile{}, fmt.Errorf("%w: %s (available: %s)", ErrProfileNotFound, want, strings.Join(available, ", "))
}

// Resolve is Find for commands that can run without saved profiles: a missing
// config file or default profile yields an empty profile when no name was given.
func (r *Resolver) Resolve(ctx context.Context, profileName string) (domain.Profile, error) {
	profile, err := r.Find(ctx, profileName)
	if err == nil {
		return profile, nil
	}
	if strings.TrimSpace(profileName) == "" &&
		(errors.Is(err, config.ErrConfigNotFound) || errors.Is(err, ErrDefaultProfileNotFound)) {
		return domain.Profile{}, nil
	}
	return domain.Profile{}, err
}

// NewFileResolver constructs a resolver from the config file at path, or the default location.
func NewFileResolver(path string) (*Resolver, error) {
	store, err := config.NewStoreAt(path)
	if err != nil {
		return nil, err
	}
	return NewResolver(store), nil
}
