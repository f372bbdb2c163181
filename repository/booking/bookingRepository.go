package bookingrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental/model"
	"carrental/util/dates"
)

var (
	ErrNotFound       = errors.New("booking not found")
	ErrCarNotFound    = errors.New("car not found")
	ErrCarUnavailable = errors.New("car not available")
	ErrDateConflict   = errors.New("dates already booked")
)

// BookingRow is the joined projection returned by the list endpoints.
type BookingRow struct {
	BookingID     int64     `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	UserName      string    `json:"user_name"`
	CarID         int64     `json:"car_id"`
	CarModel      string    `json:"car_model"`
	CarType       string    `json:"car_type"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

type Repo interface {
	Create(ctx context.Context, b *model.Booking) error
	UpdateDates(ctx context.Context, id int64, start, end time.Time) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListAll(ctx context.Context) ([]BookingRow, error)
	ListByUser(ctx context.Context, userID int64) ([]BookingRow, error)
	SetStatus(ctx context.Context, id int64, status model.BookingStatus) error

	HasActiveOverlap(ctx context.Context, carID int64, start, end time.Time) (bool, error)
	ExpireFinished(ctx context.Context, asOf time.Time) (int64, error)
	ResyncAvailability(ctx context.Context, asOf time.Time) (unavailable, available int64, err error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// Half-open range test: touching bookings do not conflict, and
// cancelled bookings never block.
const overlapQ = `
SELECT EXISTS (
	SELECT 1
	FROM bookings
	WHERE car_id = $1
	  AND status <> 'cancelled'
	  AND start_date < $3
	  AND end_date > $2
	  AND ($4::BIGINT = 0 OR id <> $4))`

// Create inserts a booking after re-checking the car flag and the
// overlap invariant inside one transaction. The advisory lock keyed on
// car_id serializes concurrent check-then-insert attempts for the same
// car, so two overlapping requests cannot both pass the check.
func (r *repo) Create(ctx context.Context, b *model.Booking) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, b.CarID); err != nil {
		return err
	}

	var available bool
	err = tx.QueryRowContext(ctx, `SELECT availability FROM cars WHERE id = $1`, b.CarID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCarNotFound
	}
	if err != nil {
		return err
	}
	if !available {
		return ErrCarUnavailable
	}

	var clash bool
	if err = tx.QueryRowContext(ctx, overlapQ, b.CarID, b.StartDate, b.EndDate, int64(0)).Scan(&clash); err != nil {
		return err
	}
	if clash {
		return ErrDateConflict
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, car_id, start_date, end_date, total_price)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, status, payment_status, created_at`,
		b.UserID, b.CarID, b.StartDate, b.EndDate, b.TotalPrice,
	).Scan(&b.ID, &b.Status, &b.PaymentStatus, &b.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateDates moves a booking to a new range, re-running the overlap
// check against all other bookings for the same car under the same
// advisory lock as Create.
func (r *repo) UpdateDates(ctx context.Context, id int64, start, end time.Time) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var carID int64
	err = tx.QueryRowContext(ctx, `SELECT car_id FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&carID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, carID); err != nil {
		return err
	}

	var clash bool
	if err = tx.QueryRowContext(ctx, overlapQ, carID, start, end, id).Scan(&clash); err != nil {
		return err
	}
	if clash {
		return ErrDateConflict
	}

	if _, err = tx.ExecContext(ctx, `UPDATE bookings SET start_date = $2, end_date = $3 WHERE id = $1`, id, start, end); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete hard-deletes the row. The car flag is left alone; the
// reconciler picks up the change on its next pass.
func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	b := &model.Booking{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, car_id, start_date, end_date, total_price, status, payment_status, created_at
		FROM bookings
		WHERE id = $1`, id,
	).Scan(&b.ID, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate, &b.TotalPrice, &b.Status, &b.PaymentStatus, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

const listQ = `
SELECT
	b.id             AS booking_id,
	b.user_id        AS user_id,
	u.first_name || ' ' || u.last_name AS user_name,
	b.car_id         AS car_id,
	c.model          AS car_model,
	c.type           AS car_type,
	b.start_date     AS start_date,
	b.end_date       AS end_date,
	b.total_price    AS total_price,
	b.status         AS status,
	b.payment_status AS payment_status,
	b.created_at     AS created_at
FROM bookings b
JOIN cars c  ON c.id = b.car_id
JOIN users u ON u.id = b.user_id`

func (r *repo) ListAll(ctx context.Context) ([]BookingRow, error) {
	return r.list(ctx, listQ+` ORDER BY b.created_at DESC, b.id DESC`)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]BookingRow, error) {
	return r.list(ctx, listQ+` WHERE b.user_id = $1 ORDER BY b.created_at DESC, b.id DESC`, userID)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]BookingRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingRow
	for rows.Next() {
		var row BookingRow
		var start, end time.Time
		if err := rows.Scan(
			&row.BookingID, &row.UserID, &row.UserName, &row.CarID, &row.CarModel, &row.CarType,
			&start, &end, &row.TotalPrice, &row.Status, &row.PaymentStatus, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		row.StartDate = dates.Format(start)
		row.EndDate = dates.Format(end)
		out = append(out, row)
	}
	return out, rows.Err()
}

// SetStatus is a plain field update (admin confirm/cancel); it does
// not re-run the overlap check.
func (r *repo) SetStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
