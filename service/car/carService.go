package carsvc

import (
	"context"
	"errors"

	"carrental/model"
	carrepo "carrental/repository/car"
)

var ErrNotFound = carrepo.ErrNotFound

type Repo interface {
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Car, error)
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

type Service interface {
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Car, error)
	Detail(ctx context.Context, id int64) (*model.Car, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, c *model.Car) error {
	if c.Model == "" || c.Type == "" || c.PricePerDay < 0 {
		return errors.New("invalid payload")
	}
	c.Availability = true
	return s.r.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, c *model.Car) error {
	if c.ID <= 0 || c.Model == "" || c.Type == "" || c.PricePerDay < 0 {
		return errors.New("invalid payload")
	}
	return s.r.Update(ctx, c)
}

func (s *service) Delete(ctx context.Context, id int64) error { return s.r.Delete(ctx, id) }
func (s *service) List(ctx context.Context) ([]model.Car, error) { return s.r.List(ctx) }
func (s *service) Detail(ctx context.Context, id int64) (*model.Car, error) {
	return s.r.GetByID(ctx, id)
}
func (s *service) SetAvailability(ctx context.Context, id int64, available bool) error {
	return s.r.SetAvailability(ctx, id, available)
}
