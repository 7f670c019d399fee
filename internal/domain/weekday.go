package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidWeekday is returned for weekday names outside sunday..saturday.
var ErrInvalidWeekday = errors.New("invalid weekday name")

var weekdayNames = [...]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// WeekdayName returns the lowercase English name used by the booking API.
func WeekdayName(w time.Weekday) string {
	if w < time.Sunday || w > time.Saturday {
		return ""
	}
	return weekdayNames[w]
}

// ParseWeekday maps an API weekday name to time.Weekday, ignoring case.
func ParseWeekday(raw string) (time.Weekday, error) {
	want := strings.ToLower(strings.TrimSpace(raw))
	for i, name := range weekdayNames {
		if name == want {
			return time.Weekday(i), nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
}

// ParseWeekdays parses a list of weekday names, skipping blanks.
func ParseWeekdays(raw []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(raw))
	for _, name := range raw {
		if strings.TrimSpace(name) == "" {
			continue
		}
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}
