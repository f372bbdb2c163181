package bookingsvc

import (
	"context"
	"errors"
	"time"

	"carrental/model"
	bookingrepo "carrental/repository/booking"
	carrepo "carrental/repository/car"
	"carrental/util/dates"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadInput       ErrCode = "BAD_INPUT"
	ErrCarNotFound    ErrCode = "CAR_NOT_FOUND"
	ErrCarUnavailable ErrCode = "CAR_UNAVAILABLE"
	ErrDateConflict   ErrCode = "DATE_CONFLICT"
	ErrNotFound       ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Row = repository shape
type Row = bookingrepo.BookingRow

type Repo interface {
	Create(ctx context.Context, b *model.Booking) error
	UpdateDates(ctx context.Context, id int64, start, end time.Time) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListAll(ctx context.Context) ([]Row, error)
	ListByUser(ctx context.Context, userID int64) ([]Row, error)
	SetStatus(ctx context.Context, id int64, status model.BookingStatus) error
}

type CarRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Car, error)
}

type Service interface {
	// Create reserves carID for [start, end). A nil totalPrice is
	// priced at days * price_per_day.
	Create(ctx context.Context, userID, carID int64, start, end time.Time, totalPrice *float64) (int64, error)

	// UpdateDates moves an existing booking to a new range.
	UpdateDates(ctx context.Context, id int64, start, end time.Time) error

	// Delete hard-deletes a booking (user cancellation).
	Delete(ctx context.Context, id int64) error

	ListAll(ctx context.Context) ([]Row, error)
	ListByUser(ctx context.Context, userID int64) ([]Row, error)

	// SetStatus applies the admin confirm/cancel transition.
	SetStatus(ctx context.Context, id int64, status model.BookingStatus) error
}

type service struct {
	r    Repo
	cars CarRepo
}

func New(r Repo, cars CarRepo) Service { return &service{r: r, cars: cars} }

func (s *service) Create(ctx context.Context, userID, carID int64, start, end time.Time, totalPrice *float64) (int64, error) {
	if userID <= 0 || carID <= 0 || start.IsZero() || end.IsZero() {
		return 0, makeErr(ErrBadInput)
	}
	if !end.After(start) {
		return 0, makeErr(ErrBadInput)
	}

	car, err := s.cars.GetByID(ctx, carID)
	if errors.Is(err, carrepo.ErrNotFound) {
		return 0, makeErr(ErrCarNotFound)
	}
	if err != nil {
		return 0, err
	}
	if !car.Availability {
		return 0, makeErr(ErrCarUnavailable)
	}

	price := car.PricePerDay * float64(dates.DaysBetween(start, end))
	if totalPrice != nil {
		price = *totalPrice
	}

	b := &model.Booking{
		UserID:     userID,
		CarID:      carID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: price,
	}
	if err := s.r.Create(ctx, b); err != nil {
		return 0, mapRepoErr(err)
	}
	return b.ID, nil
}

func (s *service) UpdateDates(ctx context.Context, id int64, start, end time.Time) error {
	if id <= 0 || start.IsZero() || end.IsZero() || !end.After(start) {
		return makeErr(ErrBadInput)
	}
	if err := s.r.UpdateDates(ctx, id, start, end); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

func (s *service) ListAll(ctx context.Context) ([]Row, error) { return s.r.ListAll(ctx) }

func (s *service) ListByUser(ctx context.Context, userID int64) ([]Row, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) SetStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	if !model.ValidBookingStatus(string(status)) {
		return makeErr(ErrBadInput)
	}
	if err := s.r.SetStatus(ctx, id, status); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, bookingrepo.ErrCarNotFound):
		return makeErr(ErrCarNotFound)
	case errors.Is(err, bookingrepo.ErrCarUnavailable):
		return makeErr(ErrCarUnavailable)
	case errors.Is(err, bookingrepo.ErrDateConflict):
		return makeErr(ErrDateConflict)
	case errors.Is(err, bookingrepo.ErrNotFound):
		return makeErr(ErrNotFound)
	}
	return err
}
