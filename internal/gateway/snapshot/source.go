package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

// ErrReadOnly is returned when a booking is submitted against a snapshot file.
var ErrReadOnly = errors.New("snapshot source is read-only")

// Source serves a restaurant snapshot loaded from a local YAML or JSON file.
type Source struct {
	path       string
	restaurant *domain.Restaurant
	labels     map[string][]domain.Label
}

type snapshotFile struct {
	Restaurant *domain.Restaurant        `yaml:"restaurant"`
	Labels     map[string][]domain.Label `yaml:"labels"`
}

// Load reads path. The file holds either a bare restaurant document or a
// {restaurant, labels} wrapper. JSON files are accepted as YAML.
func Load(path string) (*Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("snapshot path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return Parse(filepath.Base(path), data)
}

// Parse decodes snapshot content. name is only used in error messages.
func Parse(name string, data []byte) (*Source, error) {
	var wrapped snapshotFile
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	if wrapped.Restaurant == nil {
		var restaurant domain.Restaurant
		if err := yaml.Unmarshal(data, &restaurant); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
		}
		if restaurant.ID == "" && len(restaurant.Services) == 0 {
			return nil, fmt.Errorf("snapshot %s has no restaurant", name)
		}
		wrapped.Restaurant = &restaurant
	}
	return &Source{path: name, restaurant: wrapped.Restaurant, labels: wrapped.Labels}, nil
}

// RestaurantBookingInfo returns the snapshot restaurant. The id is not checked
// when the file carries no b_r_id.
func (s *Source) RestaurantBookingInfo(_ context.Context, restaurantID string) (*domain.Restaurant, error) {
	if s.restaurant.ID != "" && restaurantID != "" && !strings.EqualFold(s.restaurant.ID, restaurantID) {
		return nil, fmt.Errorf("snapshot %s holds restaurant %s, not %s", s.path, s.restaurant.ID, restaurantID)
	}
	copied := *s.restaurant
	copied.Services = append([]domain.Service(nil), s.restaurant.Services...)
	return &copied, nil
}

// CreateBookRequest always fails.
func (s *Source) CreateBookRequest(context.Context, domain.BookRequest) (*domain.BookingConfirmation, error) {
	return nil, ErrReadOnly
}

// MasterData returns labels embedded in the snapshot file.
func (s *Source) MasterData(_ context.Context, key string, _ string) ([]domain.Label, error) {
	labels, ok := s.labels[key]
	if !ok {
		return nil, fmt.Errorf("snapshot %s has no %s labels", s.path, key)
	}
	return append([]domain.Label(nil), labels...), nil
}
