package labels

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

// Master-data keys.
const (
	KeyWeekdays      = "weekdays"
	KeyMonths        = "months"
	KeyBookingStatus = "booking_status"
)

var defaultBookingStatus = map[string]string{
	"not_submitted": "Not submitted",
	"submitting":    "Submitting",
	"submitted_ok":  "Booking request sent",
	"submitted_ko":  "Booking request failed",
	"invalid_day":   "No availability on this day",
	"invalid_id":    "Invalid restaurant key",
}

// Source serves raw master-data labels.
type Source interface {
	MasterData(ctx context.Context, key string, lang string) ([]domain.Label, error)
}

type cacheKey struct {
	key  string
	lang string
}

// Provider resolves localized labels with English fallbacks.
type Provider struct {
	source Source
	lang   string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[cacheKey][]domain.Label
}

// NewProvider builds a provider for locale. A nil source serves fallbacks only.
func NewProvider(source Source, locale string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		source: source,
		lang:   ResolveLocale(locale),
		logger: logger,
		cache:  map[cacheKey][]domain.Label{},
	}
}

// Locale returns the resolved language code.
func (p *Provider) Locale() string {
	return p.lang
}

// Raw returns the labels stored under key, or nil when they cannot be loaded.
func (p *Provider) Raw(ctx context.Context, key string) []domain.Label {
	ck := cacheKey{key: key, lang: p.lang}
	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.cache[ck]; ok {
		return cached
	}
	if p.source == nil {
		return nil
	}
	labels, err := p.source.MasterData(ctx, key, p.lang)
	if err != nil {
		p.logger.Warn("master data unavailable, using fallback labels",
			zap.String("key", key), zap.String("lang", p.lang), zap.Error(err))
		return nil
	}
	p.cache[ck] = labels
	return labels
}

// Weekdays returns weekday names, matched by their english lowercase key.
func (p *Provider) Weekdays(ctx context.Context) map[time.Weekday]string {
	names := make(map[time.Weekday]string, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		names[day] = day.String()
	}
	for _, label := range p.Raw(ctx, KeyWeekdays) {
		day, err := domain.ParseWeekday(label.Key)
		if err != nil || strings.TrimSpace(label.Value) == "" {
			continue
		}
		names[day] = label.Value
	}
	return names
}

// Months returns the twelve month names, January first.
func (p *Provider) Months(ctx context.Context) [12]string {
	var names [12]string
	for month := time.January; month <= time.December; month++ {
		names[month-1] = month.String()
	}
	raw := p.Raw(ctx, KeyMonths)
	if len(raw) < len(names) {
		return names
	}
	for i := range names {
		if value := strings.TrimSpace(raw[i].Value); value != "" {
			names[i] = value
		}
	}
	return names
}

// BookingStatus returns status labels keyed by booking state.
func (p *Provider) BookingStatus(ctx context.Context) map[string]string {
	names := make(map[string]string, len(defaultBookingStatus))
	for key, value := range defaultBookingStatus {
		names[key] = value
	}
	for _, label := range p.Raw(ctx, KeyBookingStatus) {
		if label.Key != "" && strings.TrimSpace(label.Value) != "" {
			names[label.Key] = label.Value
		}
	}
	return names
}
