package cheftonic

import (
	"context"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

// Master-data keys served by the label lookup.
const (
	MasterDataWeekdays      = "weekdays"
	MasterDataMonths        = "months"
	MasterDataBookingStatus = "booking_status"
)

// API describes the Cheftonic operations used by the CLI.
type API interface {
	RestaurantBookingInfo(ctx context.Context, restaurantID string) (*domain.Restaurant, error)
	CreateBookRequest(ctx context.Context, request domain.BookRequest) (*domain.BookingConfirmation, error)
	MasterData(ctx context.Context, key string, lang string) ([]domain.Label, error)
}
