// service/booking/booking_service_test.go
package bookingsvc_test

import (
	"context"
	"testing"
	"time"

	"carrental/model"
	bookingrepo "carrental/repository/booking"
	carrepo "carrental/repository/car"
	bookingsvc "carrental/service/booking"
	"carrental/util/dates"
)

// repoMock keeps bookings in memory and enforces the same half-open
// overlap predicate as the SQL query.
type repoMock struct {
	bookings []model.Booking
	nextID   int64
}

func (m *repoMock) conflicts(carID int64, start, end time.Time, excludeID int64) bool {
	for _, b := range m.bookings {
		if b.CarID != carID || b.ID == excludeID || b.Status == model.BookingCancelled {
			continue
		}
		if dates.Overlaps(b.StartDate, b.EndDate, start, end) {
			return true
		}
	}
	return false
}

func (m *repoMock) Create(ctx context.Context, b *model.Booking) error {
	if m.conflicts(b.CarID, b.StartDate, b.EndDate, 0) {
		return bookingrepo.ErrDateConflict
	}
	m.nextID++
	b.ID = m.nextID
	b.Status = model.BookingPending
	b.PaymentStatus = "pending"
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *repoMock) UpdateDates(ctx context.Context, id int64, start, end time.Time) error {
	for i, b := range m.bookings {
		if b.ID == id {
			if m.conflicts(b.CarID, start, end, id) {
				return bookingrepo.ErrDateConflict
			}
			m.bookings[i].StartDate, m.bookings[i].EndDate = start, end
			return nil
		}
	}
	return bookingrepo.ErrNotFound
}

func (m *repoMock) Delete(ctx context.Context, id int64) error {
	for i, b := range m.bookings {
		if b.ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return bookingrepo.ErrNotFound
}

func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, bookingrepo.ErrNotFound
}

func (m *repoMock) ListAll(ctx context.Context) ([]bookingsvc.Row, error) { return nil, nil }
func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]bookingsvc.Row, error) {
	return nil, nil
}

func (m *repoMock) SetStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	for i, b := range m.bookings {
		if b.ID == id {
			m.bookings[i].Status = status
			return nil
		}
	}
	return bookingrepo.ErrNotFound
}

type carsMock struct{ cars map[int64]*model.Car }

func (m *carsMock) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	c, ok := m.cars[id]
	if !ok {
		return nil, carrepo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func d(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := dates.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func newFixture() (*repoMock, *carsMock, bookingsvc.Service) {
	r := &repoMock{}
	c := &carsMock{cars: map[int64]*model.Car{
		1: {ID: 1, Model: "Civic", Type: "Sedan", PricePerDay: 50, Availability: true},
		2: {ID: 2, Model: "CX-5", Type: "SUV", PricePerDay: 80, Availability: false},
	}}
	return r, c, bookingsvc.New(r, c)
}

func TestCreate_Validation(t *testing.T) {
	_, _, s := newFixture()
	ctx := context.Background()

	if _, err := s.Create(ctx, 0, 1, d(t, "2025-01-10"), d(t, "2025-01-12"), nil); bookingsvc.Code(err) != bookingsvc.ErrBadInput {
		t.Fatalf("expected BAD_INPUT for missing user, got %v", err)
	}
	if _, err := s.Create(ctx, 7, 1, d(t, "2025-01-12"), d(t, "2025-01-12"), nil); bookingsvc.Code(err) != bookingsvc.ErrBadInput {
		t.Fatalf("expected BAD_INPUT for empty range, got %v", err)
	}
	if _, err := s.Create(ctx, 7, 1, d(t, "2025-01-12"), d(t, "2025-01-10"), nil); bookingsvc.Code(err) != bookingsvc.ErrBadInput {
		t.Fatalf("expected BAD_INPUT for inverted range, got %v", err)
	}
}

func TestCreate_CarNotFound(t *testing.T) {
	_, _, s := newFixture()
	if _, err := s.Create(context.Background(), 7, 99, d(t, "2025-01-10"), d(t, "2025-01-12"), nil); bookingsvc.Code(err) != bookingsvc.ErrCarNotFound {
		t.Fatalf("expected CAR_NOT_FOUND, got %v", err)
	}
}

func TestCreate_CarUnavailable(t *testing.T) {
	_, _, s := newFixture()
	if _, err := s.Create(context.Background(), 7, 2, d(t, "2025-01-10"), d(t, "2025-01-12"), nil); bookingsvc.Code(err) != bookingsvc.ErrCarUnavailable {
		t.Fatalf("expected CAR_UNAVAILABLE, got %v", err)
	}
}

func TestCreate_OverlapRejected_TouchingAllowed(t *testing.T) {
	_, _, s := newFixture()
	ctx := context.Background()

	id, err := s.Create(ctx, 1, 1, d(t, "2025-01-10"), d(t, "2025-01-12"), nil)
	if err != nil || id != 1 {
		t.Fatalf("first booking: got id=%d err=%v", id, err)
	}

	// overlaps on 2025-01-11
	if _, err := s.Create(ctx, 2, 1, d(t, "2025-01-11"), d(t, "2025-01-13"), nil); bookingsvc.Code(err) != bookingsvc.ErrDateConflict {
		t.Fatalf("expected DATE_CONFLICT, got %v", err)
	}

	// starts the day the first one ends: not a conflict
	id2, err := s.Create(ctx, 2, 1, d(t, "2025-01-12"), d(t, "2025-01-14"), nil)
	if err != nil || id2 != 2 {
		t.Fatalf("touching booking: got id=%d err=%v", id2, err)
	}
}

func TestCreate_ComputesPrice(t *testing.T) {
	r, _, s := newFixture()
	ctx := context.Background()

	if _, err := s.Create(ctx, 1, 1, d(t, "2025-01-10"), d(t, "2025-01-12"), nil); err != nil {
		t.Fatal(err)
	}
	if got := r.bookings[0].TotalPrice; got != 100 {
		t.Fatalf("computed price = %v, want 100 (2 days * 50)", got)
	}

	price := 75.0
	if _, err := s.Create(ctx, 1, 1, d(t, "2025-02-01"), d(t, "2025-02-03"), &price); err != nil {
		t.Fatal(err)
	}
	if got := r.bookings[1].TotalPrice; got != 75 {
		t.Fatalf("explicit price = %v, want 75", got)
	}
}

func TestUpdate_NotFound_NoMutation(t *testing.T) {
	r, _, s := newFixture()
	ctx := context.Background()
	if _, err := s.Create(ctx, 1, 1, d(t, "2025-01-10"), d(t, "2025-01-12"), nil); err != nil {
		t.Fatal(err)
	}

	err := s.UpdateDates(ctx, 999, d(t, "2025-03-01"), d(t, "2025-03-05"))
	if bookingsvc.Code(err) != bookingsvc.ErrNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if got := dates.Format(r.bookings[0].StartDate); got != "2025-01-10" {
		t.Fatalf("existing booking mutated: start=%s", got)
	}
}

func TestUpdate_RevalidatesOverlap(t *testing.T) {
	_, _, s := newFixture()
	ctx := context.Background()
	if _, err := s.Create(ctx, 1, 1, d(t, "2025-01-10"), d(t, "2025-01-12"), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, 2, 1, d(t, "2025-01-20"), d(t, "2025-01-22"), nil); err != nil {
		t.Fatal(err)
	}

	// moving booking 2 onto booking 1 must fail
	if err := s.UpdateDates(ctx, 2, d(t, "2025-01-11"), d(t, "2025-01-13")); bookingsvc.Code(err) != bookingsvc.ErrDateConflict {
		t.Fatalf("expected DATE_CONFLICT, got %v", err)
	}

	// shrinking booking 2 in place is fine (self excluded from the check)
	if err := s.UpdateDates(ctx, 2, d(t, "2025-01-20"), d(t, "2025-01-21")); err != nil {
		t.Fatalf("self-excluded update failed: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	_, _, s := newFixture()
	if err := s.Delete(context.Background(), 42); bookingsvc.Code(err) != bookingsvc.ErrNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSetStatus_Validation(t *testing.T) {
	_, _, s := newFixture()
	ctx := context.Background()
	if _, err := s.Create(ctx, 1, 1, d(t, "2025-01-10"), d(t, "2025-01-12"), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStatus(ctx, 1, "shipped"); bookingsvc.Code(err) != bookingsvc.ErrBadInput {
		t.Fatalf("expected BAD_INPUT for unknown status, got %v", err)
	}
	if err := s.SetStatus(ctx, 1, model.BookingConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
}
