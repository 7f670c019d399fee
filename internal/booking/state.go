package booking

import (
	"errors"
	"fmt"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

// RestaurantState tracks loading of the restaurant snapshot.
type RestaurantState string

const (
	RestaurantNotLoaded   RestaurantState = "not_loaded"
	RestaurantOK          RestaurantState = "ok"
	RestaurantInfoPending RestaurantState = "info_pending"
)

// BookingState tracks the booking draft and its submission.
type BookingState string

const (
	NotSubmitted BookingState = "not_submitted"
	Submitting   BookingState = "submitting"
	SubmittedOK  BookingState = "submitted_ok"
	SubmittedKO  BookingState = "submitted_ko"
	InvalidDay   BookingState = "invalid_day"
	InvalidID    BookingState = "invalid_id"
)

var (
	// ErrInvalidKey is returned for keys that are not "<uuid>.<index>".
	ErrInvalidKey = errors.New("invalid restaurant key")
	// ErrInfoPending is returned when the restaurant has not published enough
	// opening data to take online bookings.
	ErrInfoPending = errors.New("restaurant booking information is pending")
	// ErrNotReady is returned when the session has not loaded a restaurant.
	ErrNotReady = errors.New("booking session is not loaded")
	// ErrTimeUnavailable is returned when the requested time is not an offered slot.
	ErrTimeUnavailable = errors.New("time is not available")
	// ErrInvalidDraft wraps draft validation failures.
	ErrInvalidDraft = errors.New("invalid booking")
)

// ValidateRestaurant checks that the snapshot can take online bookings at all.
func ValidateRestaurant(restaurant *domain.Restaurant) error {
	if restaurant == nil {
		return fmt.Errorf("%w: restaurant is missing", ErrInfoPending)
	}
	if restaurant.Opening == nil || len(restaurant.Opening.OpenWeekdays) == 0 {
		return fmt.Errorf("%w: no opening weekdays", ErrInfoPending)
	}
	if len(restaurant.Services) == 0 {
		return fmt.Errorf("%w: no services", ErrInfoPending)
	}
	for _, service := range restaurant.Services {
		if !service.OnlineBookable() {
			continue
		}
		if service.OpenWeekdays == nil || len(service.OpenWeekdays) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: no service takes online bookings", ErrInfoPending)
}
