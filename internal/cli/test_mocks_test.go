package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mekedron/cheftonic-cli/internal/config"
	"github.com/mekedron/cheftonic-cli/internal/domain"
)

const testKey = "0a1b2c3d-0000-4000-8000-00000000abcd.1"

// 2024-05-06 is a Monday.
var testNow = time.Date(2024, time.May, 6, 14, 40, 0, 0, time.UTC)

type testCheftonicAPI struct {
	restaurant   *domain.Restaurant
	loadErr      error
	submitErr    error
	labels       map[string][]domain.Label
	loadedIDs    []string
	requests     []domain.BookRequest
	masterCalls  []string
	logger       *zap.Logger
	confirmation *domain.BookingConfirmation
}

func (m *testCheftonicAPI) RestaurantBookingInfo(_ context.Context, restaurantID string) (*domain.Restaurant, error) {
	m.loadedIDs = append(m.loadedIDs, restaurantID)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.restaurant, nil
}

func (m *testCheftonicAPI) CreateBookRequest(_ context.Context, request domain.BookRequest) (*domain.BookingConfirmation, error) {
	m.requests = append(m.requests, request)
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	if m.confirmation != nil {
		return m.confirmation, nil
	}
	confirmation := &domain.BookingConfirmation{BookDate: request.BookDate, NumPax: request.NumPax}
	confirmation.Restaurant.Name = "Casa Pepe"
	return confirmation, nil
}

func (m *testCheftonicAPI) MasterData(_ context.Context, key string, lang string) ([]domain.Label, error) {
	m.masterCalls = append(m.masterCalls, key+":"+lang)
	labels, ok := m.labels[key+":"+lang]
	if !ok {
		return nil, fmt.Errorf("no %s labels for %s", key, lang)
	}
	return labels, nil
}

func (m *testCheftonicAPI) SetLogger(logger *zap.Logger) {
	m.logger = logger
}

type testProfiles struct {
	profile domain.Profile
	err     error
}

func (m *testProfiles) Resolve(context.Context, string) (domain.Profile, error) {
	if m.err != nil {
		return domain.Profile{}, m.err
	}
	return m.profile, nil
}

type testConfigManager struct {
	cfg   domain.Config
	saved int
}

func (m *testConfigManager) Path() string {
	return "/tmp/test-config.json"
}

func (m *testConfigManager) Load(context.Context) (domain.Config, error) {
	if len(m.cfg.Profiles) == 0 {
		return domain.Config{}, config.ErrConfigNotFound
	}
	return m.cfg, nil
}

func (m *testConfigManager) Save(_ context.Context, cfg domain.Config) error {
	m.cfg = cfg
	m.saved++
	return nil
}

func intPtr(v int) *int {
	return &v
}

func testRestaurant() *domain.Restaurant {
	return &domain.Restaurant{
		ID:   testKey,
		Name: "Casa Pepe",
		Opening: &domain.Opening{
			OpenWeekdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
			ClosingDays:  []string{"2024/5/8"},
		},
		Services: []domain.Service{
			{
				ID:           "lunch",
				StartsAt:     "13:00",
				EndsAt:       "16:00",
				OpenWeekdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
				BookingConfig: &domain.BookingConfig{
					OnlineAllowed: true,
					InAdvance:     intPtr(0),
					MinPax:        intPtr(1),
					MaxPax:        intPtr(8),
				},
			},
			{
				ID:            "dinner",
				StartsAt:      "20:00",
				EndsAt:        "23:00",
				OpenWeekdays:  []string{"friday"},
				BookingConfig: &domain.BookingConfig{OnlineAllowed: true},
			},
		},
	}
}

func testDeps(api *testCheftonicAPI) Dependencies {
	return Dependencies{
		API:      api,
		Profiles: &testProfiles{},
		Config:   &testConfigManager{},
		Settings: config.Settings{Timezone: "UTC", Locale: "en", HorizonDays: 60, LogLevel: "warn"},
		Now:      func() time.Time { return testNow },
		Version:  "test",
	}
}
