package paymentsvc

import (
	"context"
	"errors"

	"carrental/model"
	paymentrepo "carrental/repository/payment"
)

var (
	ErrBadInput        = errors.New("bad input")
	ErrBookingNotFound = paymentrepo.ErrBookingNotFound
)

type Repo interface {
	Record(ctx context.Context, p *model.Payment) error
	ListByBooking(ctx context.Context, bookingID int64) ([]model.Payment, error)
}

type Service interface {
	// Record stores a payment against a booking and marks the booking
	// paid. Payment rows are never updated afterwards.
	Record(ctx context.Context, bookingID int64, amount float64, method string) (*model.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]model.Payment, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Record(ctx context.Context, bookingID int64, amount float64, method string) (*model.Payment, error) {
	if bookingID <= 0 || amount <= 0 || method == "" {
		return nil, ErrBadInput
	}
	p := &model.Payment{
		BookingID:     bookingID,
		Amount:        amount,
		PaymentMethod: method,
		Status:        "paid",
	}
	if err := s.r.Record(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListByBooking(ctx context.Context, bookingID int64) ([]model.Payment, error) {
	return s.r.ListByBooking(ctx, bookingID)
}
