package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carrental/model"
	carrepo "carrental/repository/car"
	"carrental/util/dates"
)

// storeMock mirrors the reconciliation queries over in-memory rows so
// the calendar-date semantics can be exercised without a database.
type storeMock struct {
	bookings []model.Booking
	cars     map[int64]*model.Car
}

func (m *storeMock) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	c, ok := m.cars[id]
	if !ok {
		return nil, carrepo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *storeMock) HasActiveOverlap(ctx context.Context, carID int64, start, end time.Time) (bool, error) {
	for _, b := range m.bookings {
		if b.CarID == carID && b.Status != model.BookingCancelled &&
			dates.Overlaps(b.StartDate, b.EndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *storeMock) ExpireFinished(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for i, b := range m.bookings {
		if b.EndDate.After(asOf) {
			continue
		}
		if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
			continue
		}
		if car := m.cars[b.CarID]; car == nil || car.Availability {
			continue
		}
		m.cars[b.CarID].Availability = true
		m.bookings[i].Status = model.BookingCompleted
		n++
	}
	return n, nil
}

func (m *storeMock) ResyncAvailability(ctx context.Context, asOf time.Time) (int64, int64, error) {
	active := map[int64]bool{}
	for _, b := range m.bookings {
		if b.Status != model.BookingCancelled && dates.Covers(b.StartDate, b.EndDate, asOf) {
			active[b.CarID] = true
		}
	}
	var unavail, avail int64
	for id, c := range m.cars {
		if active[id] {
			c.Availability = false
			unavail++
		} else {
			c.Availability = true
			avail++
		}
	}
	return unavail, avail, nil
}

func d(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := dates.Parse(s)
	require.NoError(t, err)
	return v
}

func newService(m *storeMock, today string) *service {
	now, err := dates.Parse(today)
	if err != nil {
		panic(err)
	}
	return &service{b: m, cars: m, now: func() time.Time { return now.Add(9 * time.Hour) }}
}

func TestSweep_ExpiresFinishedBooking(t *testing.T) {
	m := &storeMock{
		bookings: []model.Booking{{ID: 1, CarID: 1, StartDate: mustDate("2025-01-10"), EndDate: mustDate("2025-01-12"), Status: model.BookingConfirmed}},
		cars:     map[int64]*model.Car{1: {ID: 1, Availability: false}},
	}
	s := newService(m, "2025-01-12")

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.True(t, m.cars[1].Availability, "car must be released")
	require.Equal(t, model.BookingCompleted, m.bookings[0].Status)
}

func TestSweep_Boundary(t *testing.T) {
	m := &storeMock{
		bookings: []model.Booking{{ID: 1, CarID: 1, StartDate: mustDate("2025-01-10"), EndDate: mustDate("2025-01-13"), Status: model.BookingConfirmed}},
		cars:     map[int64]*model.Car{1: {ID: 1, Availability: false}},
	}
	// booking ends tomorrow: not yet eligible
	s := newService(m, "2025-01-12")
	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.False(t, m.cars[1].Availability)

	// end_date == today: eligible the same day
	s = newService(m, "2025-01-13")
	n, err = s.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestSweep_NoCandidatesIsNoOp(t *testing.T) {
	m := &storeMock{
		bookings: []model.Booking{{ID: 1, CarID: 1, StartDate: mustDate("2025-01-10"), EndDate: mustDate("2025-01-12"), Status: model.BookingConfirmed}},
		cars:     map[int64]*model.Car{1: {ID: 1, Availability: false}},
	}
	s := newService(m, "2025-01-12")

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// second pass finds nothing left to do
	n, err = s.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestResync_Idempotent(t *testing.T) {
	m := &storeMock{
		bookings: []model.Booking{
			{ID: 1, CarID: 1, StartDate: mustDate("2025-01-10"), EndDate: mustDate("2025-01-15"), Status: model.BookingConfirmed},
			{ID: 2, CarID: 2, StartDate: mustDate("2025-01-10"), EndDate: mustDate("2025-01-15"), Status: model.BookingCancelled},
		},
		cars: map[int64]*model.Car{
			1: {ID: 1, Availability: true},  // stale: covered by an active booking
			2: {ID: 2, Availability: false}, // stale: only a cancelled booking
			3: {ID: 3, Availability: true},
		},
	}
	s := newService(m, "2025-01-12")

	res, err := s.Resync(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), res.UnavailableCount)
	require.Equal(t, int64(2), res.AvailableCount)
	require.False(t, m.cars[1].Availability)
	require.True(t, m.cars[2].Availability)
	require.True(t, m.cars[3].Availability)

	again, err := s.Resync(context.Background())
	require.NoError(t, err)
	require.Equal(t, res, again, "resync must be idempotent")
}

func TestCheckRange_CancelledBookingsDoNotBlock(t *testing.T) {
	m := &storeMock{
		bookings: []model.Booking{{ID: 1, CarID: 1, StartDate: mustDate("2025-01-10"), EndDate: mustDate("2025-01-20"), Status: model.BookingCancelled}},
		cars:     map[int64]*model.Car{1: {ID: 1, Availability: true}},
	}
	s := newService(m, "2025-01-05")

	res, err := s.CheckRange(context.Background(), 1, d(t, "2025-01-12"), d(t, "2025-01-14"))
	require.NoError(t, err)
	require.True(t, res.Available)
}

func TestCheckRange_Conflict(t *testing.T) {
	m := &storeMock{
		bookings: []model.Booking{{ID: 1, CarID: 1, StartDate: mustDate("2025-01-10"), EndDate: mustDate("2025-01-20"), Status: model.BookingConfirmed}},
		cars:     map[int64]*model.Car{1: {ID: 1, Availability: false}},
	}
	s := newService(m, "2025-01-05")

	res, err := s.CheckRange(context.Background(), 1, d(t, "2025-01-12"), d(t, "2025-01-14"))
	require.NoError(t, err)
	require.False(t, res.Available)
	require.Contains(t, res.Message, "already booked")

	// touching range is fine
	res, err = s.CheckRange(context.Background(), 1, d(t, "2025-01-20"), d(t, "2025-01-22"))
	require.NoError(t, err)
	require.True(t, res.Available)
}

func TestCheckRange_Errors(t *testing.T) {
	m := &storeMock{cars: map[int64]*model.Car{}}
	s := newService(m, "2025-01-05")

	_, err := s.CheckRange(context.Background(), 1, d(t, "2025-01-14"), d(t, "2025-01-12"))
	require.ErrorIs(t, err, ErrBadRange)

	_, err = s.CheckRange(context.Background(), 1, d(t, "2025-01-12"), d(t, "2025-01-14"))
	require.ErrorIs(t, err, ErrCarNotFound)
}

func mustDate(s string) time.Time {
	v, err := dates.Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
