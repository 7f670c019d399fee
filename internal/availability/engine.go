package availability

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

// DefaultHorizonDays bounds the soonest-slot scan.
const DefaultHorizonDays = 180

var (
	// ErrInvalidConfig marks a restaurant snapshot the engine cannot compute with.
	ErrInvalidConfig = errors.New("invalid restaurant configuration")
	// ErrNoAvailability is returned when no bookable day exists within the horizon.
	ErrNoAvailability = errors.New("no availability")
)

// ServiceRange is a half-open bookable interval contributed by one service.
type ServiceRange struct {
	ServiceID   string        `json:"service_id" yaml:"service_id"`
	Start       time.Time     `json:"start" yaml:"start"`
	End         time.Time     `json:"end" yaml:"end"`
	Granularity time.Duration `json:"-" yaml:"-"`
}

// Contains reports whether t lies in [Start, End).
func (r ServiceRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Slot is an offerable booking start time.
type Slot struct {
	ServiceID string    `json:"service_id" yaml:"service_id"`
	Start     time.Time `json:"start" yaml:"start"`
}

// DayAvailability holds the bookable ranges of one calendar day in service order.
type DayAvailability struct {
	Day    domain.Date    `json:"day" yaml:"day"`
	Ranges []ServiceRange `json:"ranges" yaml:"ranges"`
}

func (a DayAvailability) IsEmpty() bool {
	return len(a.Ranges) == 0
}

// Slots enumerates start times of every range, stepping by the range granularity.
func (a DayAvailability) Slots() []Slot {
	slots := make([]Slot, 0)
	for _, r := range a.Ranges {
		step := r.Granularity
		if step <= 0 {
			step = domain.DefaultGranularityMinutes * time.Minute
		}
		for t := r.Start; t.Before(r.End); t = t.Add(step) {
			slots = append(slots, Slot{ServiceID: r.ServiceID, Start: t})
		}
	}
	return slots
}

// ServiceAt returns the id of the first service whose range contains t.
func (a DayAvailability) ServiceAt(t time.Time) (string, bool) {
	for _, r := range a.Ranges {
		if r.Contains(t) {
			return r.ServiceID, true
		}
	}
	return "", false
}

type compiledService struct {
	id          string
	online      bool
	weekdays    map[time.Weekday]struct{}
	startMinute int
	endMinute   int
	advance     time.Duration
	granularity int
}

func (s compiledService) openOn(day time.Weekday) bool {
	if s.weekdays == nil {
		return true
	}
	_, ok := s.weekdays[day]
	return ok
}

type cacheEntry struct {
	availability DayAvailability
	asOf         time.Time
}

// Engine answers per-day availability queries for one restaurant snapshot.
// Build a new Engine when the snapshot changes.
type Engine struct {
	loc      *time.Location
	horizon  int
	closing  map[domain.Date]struct{}
	services []compiledService

	mu    sync.Mutex
	cache map[domain.Date]cacheEntry
}

// Option configures an Engine.
type Option func(*Engine)

// WithHorizon sets how many days FirstBookable scans before giving up.
func WithHorizon(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.horizon = days
		}
	}
}

// NewEngine compiles the restaurant snapshot. Times are interpreted in loc.
func NewEngine(restaurant *domain.Restaurant, loc *time.Location, opts ...Option) (*Engine, error) {
	if restaurant == nil {
		return nil, fmt.Errorf("%w: restaurant snapshot is nil", ErrInvalidConfig)
	}
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{
		loc:     loc,
		horizon: DefaultHorizonDays,
		closing: map[domain.Date]struct{}{},
		cache:   map[domain.Date]cacheEntry{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if restaurant.Opening != nil {
		for _, raw := range restaurant.Opening.ClosingDays {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			day, err := domain.ParseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: closing day: %v", ErrInvalidConfig, err)
			}
			e.closing[day] = struct{}{}
		}
	}

	e.services = make([]compiledService, 0, len(restaurant.Services))
	for _, service := range restaurant.Services {
		compiled, err := compileService(service)
		if err != nil {
			return nil, fmt.Errorf("%w: service %q: %v", ErrInvalidConfig, service.ID, err)
		}
		e.services = append(e.services, compiled)
	}
	return e, nil
}

func compileService(service domain.Service) (compiledService, error) {
	if service.BookingConfig == nil {
		return compiledService{}, errors.New("missing booking_config")
	}
	start, err := parseClock(service.StartsAt, false)
	if err != nil {
		return compiledService{}, fmt.Errorf("starts_at: %w", err)
	}
	end, err := parseClock(service.EndsAt, true)
	if err != nil {
		return compiledService{}, fmt.Errorf("ends_at: %w", err)
	}
	if end <= start {
		return compiledService{}, fmt.Errorf("ends_at %s is not after starts_at %s", service.EndsAt, service.StartsAt)
	}
	granularity := service.BookingConfig.GranularityMinutes()
	if granularity <= 0 {
		return compiledService{}, fmt.Errorf("granularity must be positive, got %d", granularity)
	}

	compiled := compiledService{
		id:          service.ID,
		online:      bool(service.BookingConfig.OnlineAllowed),
		startMinute: start,
		endMinute:   end,
		advance:     service.BookingConfig.AdvanceNotice(),
		granularity: granularity,
	}
	if service.OpenWeekdays != nil {
		days, err := domain.ParseWeekdays(service.OpenWeekdays)
		if err != nil {
			return compiledService{}, err
		}
		compiled.weekdays = make(map[time.Weekday]struct{}, len(days))
		for _, day := range days {
			compiled.weekdays[day] = struct{}{}
		}
	}
	return compiled, nil
}

// parseClock converts HH:MM to minutes after midnight. 24:00 is allowed only as an end.
func parseClock(raw string, endOfDay bool) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", raw)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", raw)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", raw)
	}
	if hours == 24 && minutes == 0 && endOfDay {
		return 24 * 60, nil
	}
	if hours > 23 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", raw)
	}
	return hours*60 + minutes, nil
}

// Location returns the zone wall-clock times are interpreted in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Horizon returns the number of days FirstBookable scans.
func (e *Engine) Horizon() int {
	return e.horizon
}

// ClosingDay reports whether day is an explicit closing exception.
func (e *Engine) ClosingDay(day domain.Date) bool {
	_, ok := e.closing[day]
	return ok
}

// ClosingDaysInMonth returns the closing days that fall inside month, ascending.
func (e *Engine) ClosingDaysInMonth(month domain.Month) []domain.Date {
	days := make([]domain.Date, 0)
	for day := range e.closing {
		if month.Contains(day) {
			days = append(days, day)
		}
	}
	slices.SortFunc(days, domain.Date.Compare)
	return days
}

// AvailabilityFor returns the memoized availability of day as seen at now.
// Results for the current day are only reused for the same now.
func (e *Engine) AvailabilityFor(day domain.Date, now time.Time) DayAvailability {
	now = now.In(e.loc)
	var asOf time.Time
	if day == domain.DateOf(now) {
		asOf = now
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.cache[day]; ok && entry.asOf.Equal(asOf) {
		return cloneAvailability(entry.availability)
	}
	computed := e.Compute(day, now)
	e.cache[day] = cacheEntry{availability: computed, asOf: asOf}
	return cloneAvailability(computed)
}

// Compute is the uncached availability computation.
func (e *Engine) Compute(day domain.Date, now time.Time) DayAvailability {
	result := DayAvailability{Day: day, Ranges: []ServiceRange{}}
	if e.ClosingDay(day) {
		return result
	}

	now = now.In(e.loc)
	sameDay := day == domain.DateOf(now)
	weekday := day.Weekday()
	for _, service := range e.services {
		if !service.online || !service.openOn(weekday) {
			continue
		}
		start := day.At(e.loc, service.startMinute)
		end := day.At(e.loc, service.endMinute)
		if sameDay {
			soonest := roundUp(now.Add(service.advance), service.granularity)
			if !soonest.Before(end) {
				continue
			}
			if soonest.After(start) {
				start = soonest
			}
		}
		result.Ranges = append(result.Ranges, ServiceRange{
			ServiceID:   service.id,
			Start:       start,
			End:         end,
			Granularity: time.Duration(service.granularity) * time.Minute,
		})
	}
	return result
}

// roundUp moves t forward to the next wall-clock multiple of granularity minutes
// counted from local midnight. Instants already on a boundary are kept.
func roundUp(t time.Time, granularity int) time.Time {
	hour, minute, second := t.Clock()
	minutes := hour*60 + minute
	if second > 0 || t.Nanosecond() > 0 {
		minutes++
	}
	if rem := minutes % granularity; rem != 0 {
		minutes += granularity - rem
	}
	return domain.DateOf(t).At(t.Location(), minutes)
}

func cloneAvailability(a DayAvailability) DayAvailability {
	return DayAvailability{Day: a.Day, Ranges: slices.Clone(a.Ranges)}
}
