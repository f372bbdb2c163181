// Package availability keeps the denormalized car availability flag in
// sync with the bookings table. Two entry points, both idempotent: a
// full resync (authoritative recomputation, for ad hoc repair and the
// admin trigger) and an expiry sweep (incremental pass releasing cars
// whose bookings have ended, run by the scheduler).
package availability

import (
	"context"
	"errors"
	"time"

	"carrental/model"
	carrepo "carrental/repository/car"
	"carrental/util/dates"
)

var (
	ErrCarNotFound = errors.New("car not found")
	ErrBadRange    = errors.New("invalid date range")
)

type BookingStore interface {
	HasActiveOverlap(ctx context.Context, carID int64, start, end time.Time) (bool, error)
	ExpireFinished(ctx context.Context, asOf time.Time) (int64, error)
	ResyncAvailability(ctx context.Context, asOf time.Time) (unavailable, available int64, err error)
}

type CarStore interface {
	GetByID(ctx context.Context, id int64) (*model.Car, error)
}

type CheckResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type ResyncResult struct {
	UnavailableCount int64 `json:"unavailable_count"`
	AvailableCount   int64 `json:"available_count"`
}

type Service interface {
	// CheckRange answers "can carID be booked for [start, end)?",
	// ignoring cancelled bookings.
	CheckRange(ctx context.Context, carID int64, start, end time.Time) (*CheckResult, error)

	// Resync recomputes every car's flag as of today.
	Resync(ctx context.Context) (*ResyncResult, error)

	// Sweep expires bookings that ended on or before today and frees
	// their cars. Returns the number of bookings completed.
	Sweep(ctx context.Context) (int64, error)
}

type service struct {
	b    BookingStore
	cars CarStore
	now  func() time.Time
}

func New(b BookingStore, cars CarStore) Service {
	return &service{b: b, cars: cars, now: time.Now}
}

func (s *service) CheckRange(ctx context.Context, carID int64, start, end time.Time) (*CheckResult, error) {
	if !end.After(start) {
		return nil, ErrBadRange
	}
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		if errors.Is(err, carrepo.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	clash, err := s.b.HasActiveOverlap(ctx, carID, start, end)
	if err != nil {
		return nil, err
	}
	if clash {
		return &CheckResult{Available: false, Message: "Car is already booked for the selected dates"}, nil
	}
	return &CheckResult{Available: true, Message: "Car is available for the selected dates"}, nil
}

func (s *service) Resync(ctx context.Context) (*ResyncResult, error) {
	unavail, avail, err := s.b.ResyncAvailability(ctx, dates.Today(s.now()))
	if err != nil {
		return nil, err
	}
	return &ResyncResult{UnavailableCount: unavail, AvailableCount: avail}, nil
}

func (s *service) Sweep(ctx context.Context) (int64, error) {
	return s.b.ExpireFinished(ctx, dates.Today(s.now()))
}
