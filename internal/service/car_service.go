package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"carrental/internal/apperr"
	"carrental/internal/db"
	"carrental/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// CarService owns the car catalog and exposes the availability flag as
// mutable state. Flag transitions during booking are driven by RentalService.
type CarService struct {
	store store.Store
	log   *logrus.Logger
}

func NewCarService(st store.Store, log *logrus.Logger) *CarService {
	return &CarService{store: st, log: log}
}

func (s *CarService) Register(ctx context.Context, car *db.Car) error {
	if err := s.store.CreateCar(ctx, car); err != nil {
		return fmt.Errorf("error registering car: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"car_id": car.ID,
		"make":   car.Make,
		"model":  car.Model,
	}).Info("car registered")
	return nil
}

func (s *CarService) Get(ctx context.Context, id int64) (*db.Car, error) {
	car, err := s.store.GetCar(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCarNotFound) {
			return nil, apperr.NotFound("Car not found")
		}
		return nil, fmt.Errorf("error fetching car: %w", err)
	}
	return car, nil
}

func (s *CarService) List(ctx context.Context, offset, limit int) ([]db.Car, error) {
	offset, limit = clampPage(offset, limit)
	cars, err := s.store.ListCars(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing cars: %w", err)
	}
	return cars, nil
}

func (s *CarService) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := s.store.SetCarAvailability(ctx, id, available); err != nil {
		if errors.Is(err, store.ErrCarNotFound) {
			return apperr.NotFound("Car not found")
		}
		return fmt.Errorf("error updating car availability: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"car_id":    id,
		"available": available,
	}).Info("car availability updated")
	return nil
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return offset, limit
}
