package bookingrepo

import (
	"context"
	"time"
)

// HasActiveOverlap is the read-only availability probe used by the
// check endpoint. Same predicate as the create path, no lock.
func (r *repo) HasActiveOverlap(ctx context.Context, carID int64, start, end time.Time) (bool, error) {
	var clash bool
	err := r.db.QueryRowContext(ctx, overlapQ, carID, start, end, int64(0)).Scan(&clash)
	return clash, err
}

// ExpireFinished is the incremental sweep: bookings whose range has
// ended (end_date <= asOf) with the car still flagged unavailable are
// completed and their cars released. Only bookings that are actually
// ending are visited, so this is cheap enough to run every tick.
func (r *repo) ExpireFinished(ctx context.Context, asOf time.Time) (n int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT b.id, b.car_id
		FROM bookings b
		JOIN cars c ON c.id = b.car_id
		WHERE b.end_date <= $1
		  AND b.status IN ('pending','confirmed')
		  AND c.availability = FALSE
		FOR UPDATE OF b`, asOf)
	if err != nil {
		return 0, err
	}

	type expired struct{ bookingID, carID int64 }
	var batch []expired
	for rows.Next() {
		var e expired
		if err = rows.Scan(&e.bookingID, &e.carID); err != nil {
			rows.Close()
			return 0, err
		}
		batch = append(batch, e)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	for _, e := range batch {
		if _, err = tx.ExecContext(ctx, `UPDATE cars SET availability = TRUE WHERE id = $1`, e.carID); err != nil {
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, `UPDATE bookings SET status = 'completed' WHERE id = $1`, e.bookingID); err != nil {
			return 0, err
		}
		n++
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// ResyncAvailability is the authoritative recomputation: exactly the
// cars with a non-cancelled booking covering asOf become unavailable,
// every other car becomes available. Safe to run from any state.
func (r *repo) ResyncAvailability(ctx context.Context, asOf time.Time) (unavailable, available int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const activeCars = `
		SELECT car_id FROM bookings
		WHERE status <> 'cancelled'
		  AND start_date <= $1
		  AND end_date > $1`

	res, err := tx.ExecContext(ctx, `UPDATE cars SET availability = FALSE WHERE id IN (`+activeCars+`)`, asOf)
	if err != nil {
		return 0, 0, err
	}
	unavailable, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `UPDATE cars SET availability = TRUE WHERE id NOT IN (`+activeCars+`)`, asOf)
	if err != nil {
		return 0, 0, err
	}
	available, _ = res.RowsAffected()

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return unavailable, available, nil
}
