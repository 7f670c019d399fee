package domain

import "time"

// BookingChannel tags requests created outside the restaurant's own tools.
const BookingChannel = "external_web"

// ISOLayout matches the millisecond UTC form the booking API expects.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatISO renders t as UTC ISO-8601 with milliseconds.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// BookRequest is the outbound booking record.
type BookRequest struct {
	RestaurantID string `json:"b_r_id" yaml:"b_r_id"`
	BookDate     string `json:"book_date" yaml:"book_date"`
	MadeOn       string `json:"made_on" yaml:"made_on"`
	NumPax       int    `json:"num_pax" yaml:"num_pax"`
	Notes        string `json:"notes" yaml:"notes"`
	Phone        string `json:"phone" yaml:"phone"`
	Email        string `json:"email" yaml:"email"`
	Name         string `json:"name" yaml:"name"`
	Surname      string `json:"surname" yaml:"surname"`
	Channel      string `json:"channel" yaml:"channel"`
	Service      string `json:"service" yaml:"service"`
}

// BookingConfirmation is the acknowledgement of an accepted booking request.
type BookingConfirmation struct {
	BookDate   string `json:"book_date" yaml:"book_date"`
	NumPax     int    `json:"num_pax" yaml:"num_pax"`
	Restaurant struct {
		Name string `json:"r_name" yaml:"r_name"`
	} `json:"restaurant" yaml:"restaurant"`
}

// Label is one localized master-data entry.
type Label struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}
