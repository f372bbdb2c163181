package carrepo

import (
	"context"
	"database/sql"
	"errors"

	"carrental/model"
)

var ErrNotFound = errors.New("car not found")

type Repo interface {
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Car, error)
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, c *model.Car) error {
	const q = `
		INSERT INTO cars (model, brand, type, year, price_per_day, availability)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		c.Model, c.Brand, c.Type, c.Year, c.PricePerDay, c.Availability,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repo) Update(ctx context.Context, c *model.Car) error {
	const q = `
		UPDATE cars
		SET model = $2, brand = $3, type = $4, year = $5, price_per_day = $6
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, c.ID, c.Model, c.Brand, c.Type, c.Year, c.PricePerDay)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]model.Car, error) {
	const q = `
		SELECT id, model, brand, type, year, price_per_day, availability, created_at
		FROM cars
		ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Car
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.Model, &c.Brand, &c.Type, &c.Year, &c.PricePerDay, &c.Availability, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	c := &model.Car{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, model, brand, type, year, price_per_day, availability, created_at
		FROM cars
		WHERE id = $1`, id,
	).Scan(&c.ID, &c.Model, &c.Brand, &c.Type, &c.Year, &c.PricePerDay, &c.Availability, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetAvailability is the manual admin override. Last-writer-wins
// against the sweep; the reconciler corrects drift on its next pass.
func (r *repo) SetAvailability(ctx context.Context, id int64, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cars SET availability = $2 WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
