package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultGranularityMinutes is the slot interval used when a service does not set one.
const DefaultGranularityMinutes = 30

// Flag is a boolean that also decodes from the numeric 0/1 form used by the booking API.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	value, err := parseFlag(strings.TrimSpace(string(data)))
	if err != nil {
		return err
	}
	*f = Flag(value)
	return nil
}

func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(v)
	case int:
		*f = v != 0
	case float64:
		*f = v != 0
	case string:
		value, err := parseFlag(v)
		if err != nil {
			return err
		}
		*f = Flag(value)
	default:
		return fmt.Errorf("invalid flag value %v", raw)
	}
	return nil
}

func parseFlag(raw string) (bool, error) {
	raw = strings.Trim(raw, `"`)
	switch strings.ToLower(raw) {
	case "", "null", "false":
		return false, nil
	case "true":
		return true, nil
	}
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false, fmt.Errorf("invalid flag value %q", raw)
	}
	return number != 0, nil
}

// Opening stores the restaurant's weekly opening days and closing exceptions.
type Opening struct {
	From         *string  `json:"from" yaml:"from,omitempty"`
	To           *string  `json:"to" yaml:"to,omitempty"`
	OpenWeekdays []string `json:"open_weekdays" yaml:"open_weekdays"`
	ClosingDays  []string `json:"closing_days" yaml:"closing_days"`
}

// BookingConfig stores per-service online booking rules.
type BookingConfig struct {
	Capacity      *int     `json:"capacity" yaml:"capacity,omitempty"`
	ClosingTime   *string  `json:"closing_time" yaml:"closing_time,omitempty"`
	InAdvance     *int     `json:"in_advance" yaml:"in_advance,omitempty"`
	OnlineAllowed Flag     `json:"online_allowed" yaml:"online_allowed"`
	NoShowCharge  *float64 `json:"no_show_charge" yaml:"no_show_charge,omitempty"`
	MinPax        *int     `json:"min_pax" yaml:"min_pax,omitempty"`
	MaxPax        *int     `json:"max_pax" yaml:"max_pax,omitempty"`
	Granularity   *int     `json:"granularity,omitempty" yaml:"granularity,omitempty"`
}

// AdvanceNotice is the minimum lead time for same-day bookings.
func (c BookingConfig) AdvanceNotice() time.Duration {
	if c.InAdvance == nil || *c.InAdvance < 0 {
		return 0
	}
	return time.Duration(*c.InAdvance) * time.Minute
}

// GranularityMinutes returns the configured slot interval or the default.
func (c BookingConfig) GranularityMinutes() int {
	if c.Granularity == nil {
		return DefaultGranularityMinutes
	}
	return *c.Granularity
}

// Service is a bookable seating period such as lunch or dinner.
type Service struct {
	ID            string         `json:"rs_id" yaml:"rs_id"`
	Name          string         `json:"name" yaml:"name"`
	IsActive      bool           `json:"is_active" yaml:"is_active"`
	DateRange     []string       `json:"date_range" yaml:"date_range,omitempty"`
	OpenWeekdays  []string       `json:"open_weekdays" yaml:"open_weekdays"`
	StartsAt      string         `json:"starts_at" yaml:"starts_at"`
	EndsAt        string         `json:"ends_at" yaml:"ends_at"`
	BookingConfig *BookingConfig `json:"booking_config" yaml:"booking_config"`
}

// OnlineBookable reports whether the service accepts self-service bookings.
func (s Service) OnlineBookable() bool {
	return s.BookingConfig != nil && bool(s.BookingConfig.OnlineAllowed)
}

// Restaurant is the booking snapshot of one restaurant.
type Restaurant struct {
	ID       string    `json:"b_r_id" yaml:"b_r_id"`
	Name     string    `json:"r_name,omitempty" yaml:"r_name,omitempty"`
	Opening  *Opening  `json:"opening" yaml:"opening"`
	Services []Service `json:"services" yaml:"services"`
}

// ServiceByID returns the service with the given id.
func (r Restaurant) ServiceByID(id string) (Service, bool) {
	for _, service := range r.Services {
		if service.ID == id {
			return service, true
		}
	}
	return Service{}, false
}
