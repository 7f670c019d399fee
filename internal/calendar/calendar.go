package calendar

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

var (
	// ErrDayDisabled is returned when selecting a day that is not selectable.
	ErrDayDisabled = errors.New("day is not selectable")
	// ErrMonthUnavailable is returned when showing a month before the earliest day's month.
	ErrMonthUnavailable = errors.New("month is before the earliest selectable day")
)

// Observer receives calendar events synchronously, on the caller's goroutine.
type Observer interface {
	DaySelected(selected []domain.Date)
	MonthChanged(month domain.Month)
}

type nopObserver struct{}

func (nopObserver) DaySelected([]domain.Date) {}
func (nopObserver) MonthChanged(domain.Month) {}

// Config controls which days are selectable.
type Config struct {
	// EarliestDay disables every day before it and bounds back navigation.
	EarliestDay *domain.Date
	// MultiSelection toggles days instead of replacing the selection.
	MultiSelection bool
	// WeekdaysEnabled limits selectable weekdays. Nil means no filter.
	WeekdaysEnabled []time.Weekday
	// DisabledDays are explicit closing days.
	DisabledDays []domain.Date
	SelectedDays []domain.Date
}

// DayState is the classification of one day of the displayed month.
type DayState struct {
	Date     domain.Date  `json:"date" yaml:"date"`
	Weekday  time.Weekday `json:"-" yaml:"-"`
	Disabled bool         `json:"disabled" yaml:"disabled"`
	Selected bool         `json:"selected" yaml:"selected"`
}

// Calendar tracks the displayed month and the selected days.
type Calendar struct {
	cfg      Config
	month    domain.Month
	weekdays map[time.Weekday]struct{}
	disabled map[domain.Date]struct{}
	selected map[domain.Date]struct{}
	observer Observer
}

// New builds a calendar showing month. A zero month falls back to the
// earliest day's month, then to the first selected day's month.
func New(cfg Config, observer Observer, month domain.Month) *Calendar {
	if observer == nil {
		observer = nopObserver{}
	}
	c := &Calendar{observer: observer, month: month}
	c.apply(cfg)
	if c.month == (domain.Month{}) {
		switch {
		case cfg.EarliestDay != nil:
			c.month = domain.MonthOf(*cfg.EarliestDay)
		case len(cfg.SelectedDays) > 0:
			c.month = domain.MonthOf(cfg.SelectedDays[0])
		}
	}
	return c
}

// SetConfig replaces the selection rules and the selected days. The displayed month is kept.
func (c *Calendar) SetConfig(cfg Config) {
	c.apply(cfg)
}

func (c *Calendar) apply(cfg Config) {
	c.cfg = cfg
	c.weekdays = nil
	if cfg.WeekdaysEnabled != nil {
		c.weekdays = make(map[time.Weekday]struct{}, len(cfg.WeekdaysEnabled))
		for _, day := range cfg.WeekdaysEnabled {
			c.weekdays[day] = struct{}{}
		}
	}
	c.disabled = make(map[domain.Date]struct{}, len(cfg.DisabledDays))
	for _, day := range cfg.DisabledDays {
		c.disabled[day] = struct{}{}
	}
	c.selected = make(map[domain.Date]struct{}, len(cfg.SelectedDays))
	for _, day := range cfg.SelectedDays {
		c.selected[day] = struct{}{}
	}
}

func (c *Calendar) Month() domain.Month {
	return c.month
}

// Config returns the active rules with the current selection.
func (c *Calendar) Config() Config {
	cfg := c.cfg
	cfg.WeekdaysEnabled = slices.Clone(c.cfg.WeekdaysEnabled)
	cfg.DisabledDays = slices.Clone(c.cfg.DisabledDays)
	cfg.SelectedDays = c.Selected()
	return cfg
}

// IsDisabled reports whether day fails the weekday filter, precedes the
// earliest day or is a closing day.
func (c *Calendar) IsDisabled(day domain.Date) bool {
	if c.weekdays != nil {
		if _, ok := c.weekdays[day.Weekday()]; !ok {
			return true
		}
	}
	if c.cfg.EarliestDay != nil && day.Before(*c.cfg.EarliestDay) {
		return true
	}
	_, closed := c.disabled[day]
	return closed
}

func (c *Calendar) IsSelected(day domain.Date) bool {
	_, ok := c.selected[day]
	return ok
}

// Selected returns the selected days in ascending order.
func (c *Calendar) Selected() []domain.Date {
	days := make([]domain.Date, 0, len(c.selected))
	for day := range c.selected {
		days = append(days, day)
	}
	slices.SortFunc(days, domain.Date.Compare)
	return days
}

// Days classifies every day of the displayed month.
func (c *Calendar) Days() []DayState {
	first := c.month.First()
	days := make([]DayState, 0, c.month.Days())
	for i := 0; i < c.month.Days(); i++ {
		day := first.AddDays(i)
		days = append(days, DayState{
			Date:     day,
			Weekday:  day.Weekday(),
			Disabled: c.IsDisabled(day),
			Selected: c.IsSelected(day),
		})
	}
	return days
}

// Weeks lays the displayed month out in Monday-first rows; cells outside the month are nil.
func (c *Calendar) Weeks() [][7]*DayState {
	days := c.Days()
	weeks := make([][7]*DayState, 0, 6)
	var week [7]*DayState
	for i := range days {
		column := (int(days[i].Weekday) + 6) % 7
		if column == 0 && i > 0 {
			weeks = append(weeks, week)
			week = [7]*DayState{}
		}
		week[column] = &days[i]
	}
	return append(weeks, week)
}

// Select picks day. Single-select replaces the selection, multi-select toggles it.
func (c *Calendar) Select(day domain.Date) error {
	if c.IsDisabled(day) {
		return fmt.Errorf("%w: %s", ErrDayDisabled, day)
	}
	if c.cfg.MultiSelection {
		if c.IsSelected(day) {
			delete(c.selected, day)
		} else {
			c.selected[day] = struct{}{}
		}
	} else {
		c.selected = map[domain.Date]struct{}{day: {}}
	}
	c.observer.DaySelected(c.Selected())
	return nil
}

// CanGoBack reports whether the previous month is still on or after the earliest day's month.
func (c *Calendar) CanGoBack() bool {
	if c.cfg.EarliestDay == nil {
		return true
	}
	return domain.MonthOf(*c.cfg.EarliestDay).Before(c.month)
}

// PreviousMonth moves one month back when allowed and reports whether it moved.
func (c *Calendar) PreviousMonth() bool {
	if !c.CanGoBack() {
		return false
	}
	c.month = c.month.AddMonths(-1)
	c.observer.MonthChanged(c.month)
	return true
}

func (c *Calendar) NextMonth() {
	c.month = c.month.AddMonths(1)
	c.observer.MonthChanged(c.month)
}

// ShowMonth jumps to month. Months before the earliest day's month are rejected.
func (c *Calendar) ShowMonth(month domain.Month) error {
	if c.cfg.EarliestDay != nil && month.Before(domain.MonthOf(*c.cfg.EarliestDay)) {
		return fmt.Errorf("%w: %s", ErrMonthUnavailable, month)
	}
	c.month = month
	c.observer.MonthChanged(c.month)
	return nil
}
