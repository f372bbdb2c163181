package model

import "time"

type Car struct {
	ID          int64   `json:"id"`
	Model       string  `json:"model"`
	Brand       *string `json:"brand,omitempty"`
	Type        string  `json:"type"`
	Year        *int    `json:"year,omitempty"`
	PricePerDay float64 `json:"price_per_day"`

	// Availability is denormalized from the bookings table and kept in
	// sync by the availability reconciler; true means bookable today.
	Availability bool      `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
}
