package paymentrepo

import (
	"context"
	"database/sql"
	"errors"

	"carrental/model"
)

var ErrBookingNotFound = errors.New("booking not found")

type Repo interface {
	Record(ctx context.Context, p *model.Payment) error
	ListByBooking(ctx context.Context, bookingID int64) ([]model.Payment, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// Record inserts the payment row and flips the linked booking's
// payment_status in one transaction.
func (r *repo) Record(ctx context.Context, p *model.Payment) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var bookingID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM bookings WHERE id = $1 FOR UPDATE`, p.BookingID).Scan(&bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (booking_id, amount, payment_method, status)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		p.BookingID, p.Amount, p.PaymentMethod, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE bookings SET payment_status = $2 WHERE id = $1`, p.BookingID, p.Status); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) ListByBooking(ctx context.Context, bookingID int64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, booking_id, amount, payment_method, status, created_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC, id DESC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaymentMethod, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
