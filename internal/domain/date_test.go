package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateAcceptsBothLayouts(t *testing.T) {
	cases := map[string]Date{
		"2024-03-09": {Year: 2024, Month: time.March, Day: 9},
		"2024/3/9":   {Year: 2024, Month: time.March, Day: 9},
		"2024/12/25": {Year: 2024, Month: time.December, Day: 25},
		" 2024-1-5 ": {Year: 2024, Month: time.January, Day: 5},
	}
	for raw, want := range cases {
		got, err := ParseDate(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %v, got %v", raw, want, got)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("09.03.2024")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateArithmeticCrossesMonthAndYear(t *testing.T) {
	d := NewDate(2024, time.December, 31).AddDays(1)
	if d != (Date{Year: 2025, Month: time.January, Day: 1}) {
		t.Fatalf("unexpected rollover %v", d)
	}
	if !NewDate(2024, time.February, 28).Before(NewDate(2024, time.February, 29)) {
		t.Fatal("expected Feb 28 before Feb 29")
	}
	if NewDate(2024, time.March, 1).Weekday() != time.Friday {
		t.Fatalf("expected 2024-03-01 to be a Friday")
	}
}

func TestDateAtUsesWallClockInLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	at := NewDate(2024, time.May, 6).At(loc, 13*60+30)
	if at.Hour() != 13 || at.Minute() != 30 || at.Location() != loc {
		t.Fatalf("unexpected instant %v", at)
	}
	if got := NewDate(2024, time.May, 6).At(loc, 24*60); DateOf(got) != NewDate(2024, time.May, 7) {
		t.Fatalf("expected 24:00 to roll to next day, got %v", got)
	}
}

func TestMonthHelpers(t *testing.T) {
	m, err := ParseMonth("2024-02")
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	if m.Days() != 29 {
		t.Fatalf("expected leap february, got %d days", m.Days())
	}
	if next := m.AddMonths(11); next != (Month{Year: 2025, Month: time.January}) {
		t.Fatalf("unexpected month %v", next)
	}
	if !m.Before(m.AddMonths(1)) || m.Before(m) {
		t.Fatal("unexpected month ordering")
	}
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday(" Wednesday ")
	if err != nil || day != time.Wednesday {
		t.Fatalf("expected wednesday, got %v (%v)", day, err)
	}
	if _, err := ParseWeekday("funday"); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
	if WeekdayName(time.Saturday) != "saturday" {
		t.Fatalf("unexpected name %q", WeekdayName(time.Saturday))
	}
}
