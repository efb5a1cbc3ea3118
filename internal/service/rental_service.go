package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"carrental/internal/apperr"
	"carrental/internal/db"
	"carrental/internal/store"
)

// Accepted timestamp layouts: RFC3339 with or without fractional seconds
// (the frontend sends toISOString() output with a trailing Z), plus zone-less
// ISO-8601 variants read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// RentalRequest carries the booking input with the dates still unparsed:
// timestamp parsing is part of the booking contract and happens after the
// car has been resolved and its availability gate checked.
type RentalRequest struct {
	UserName  string
	StartDate string
	EndDate   string
}

// RentalService validates and commits bookings, keeping each car's
// availability flag consistent with its rentals. Reserve and Cancel run their
// read-validate-write sequence inside one store transaction.
type RentalService struct {
	store  store.Store
	notify *NotifyService
	log    *logrus.Logger

	now func() time.Time
}

func NewRentalService(st store.Store, notify *NotifyService, log *logrus.Logger) *RentalService {
	return &RentalService{store: st, notify: notify, log: log, now: time.Now}
}

// Reserve books a car for the requested period. Checks run in a fixed order:
// car exists, availability flag, timestamp parsing, start before end, start
// not in the past, no overlapping rental. The flag gate and the overlap scan
// are both kept even though they look redundant: the flag rejects any booking
// on a held car regardless of dates, the scan guards the interval itself.
func (s *RentalService) Reserve(ctx context.Context, carID int64, req RentalRequest) (*db.Rental, error) {
	var (
		rental *db.Rental
		car    *db.Car
	)
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		car, err = tx.GetCarForUpdate(carID)
		if err != nil {
			if errors.Is(err, store.ErrCarNotFound) {
				return apperr.NotFound("Car not found")
			}
			return fmt.Errorf("error resolving car: %w", err)
		}
		if !car.Available {
			return apperr.Conflict("Car is not available for the selected dates")
		}

		start, err := parseTimestamp(req.StartDate)
		if err != nil {
			return apperr.InvalidInput("start_date is not a valid timestamp")
		}
		end, err := parseTimestamp(req.EndDate)
		if err != nil {
			return apperr.InvalidInput("end_date is not a valid timestamp")
		}
		if !start.Before(end) {
			return apperr.InvalidInput("start_date must be before end_date")
		}
		now := s.now().UTC()
		if start.Before(now) {
			return apperr.InvalidInput("start_date cannot be in the past")
		}

		// Inclusive-bounds intersection: back-to-back rentals sharing an
		// endpoint instant conflict, no buffer gap is permitted.
		overlap, err := tx.HasOverlappingRental(carID, start, end)
		if err != nil {
			return fmt.Errorf("error scanning for overlapping rentals: %w", err)
		}
		if overlap {
			return apperr.Conflict("Car is already rented for an overlapping period")
		}

		rental = &db.Rental{
			Code:       uuid.NewString(),
			CarID:      carID,
			UserName:   req.UserName,
			StartDate:  start,
			EndDate:    end,
			RentalDate: now,
		}
		if err := tx.CreateRental(rental); err != nil {
			return fmt.Errorf("error creating rental: %w", err)
		}
		return tx.SetCarAvailability(carID, false)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"rental_id": rental.ID,
		"car_id":    carID,
		"user_name": rental.UserName,
	}).Info("rental booked")
	s.notify.RentalBooked(car, rental)
	return rental, nil
}

// Cancel deletes the rental and releases the car. A missing car is tolerated:
// the flag update is skipped and the rental is still removed.
func (s *RentalService) Cancel(ctx context.Context, rentalID int64) error {
	var (
		rental *db.Rental
		car    *db.Car
	)
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		rental, err = tx.GetRental(rentalID)
		if err != nil {
			if errors.Is(err, store.ErrRentalNotFound) {
				return apperr.NotFound("Rental not found")
			}
			return fmt.Errorf("error resolving rental: %w", err)
		}

		car, err = tx.GetCarForUpdate(rental.CarID)
		if err != nil && !errors.Is(err, store.ErrCarNotFound) {
			return fmt.Errorf("error resolving rented car: %w", err)
		}
		if car != nil {
			if err := tx.SetCarAvailability(car.ID, true); err != nil {
				return fmt.Errorf("error releasing car: %w", err)
			}
		}
		return tx.DeleteRental(rental.ID)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"rental_id": rentalID,
		"car_id":    rental.CarID,
	}).Info("rental cancelled")
	s.notify.RentalCancelled(car, rental)
	return nil
}

func (s *RentalService) Get(ctx context.Context, id int64) (*db.Rental, error) {
	rental, err := s.store.GetRental(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRentalNotFound) {
			return nil, apperr.NotFound("Rental not found")
		}
		return nil, fmt.Errorf("error fetching rental: %w", err)
	}
	return rental, nil
}

func (s *RentalService) List(ctx context.Context, offset, limit int) ([]db.Rental, error) {
	offset, limit = clampPage(offset, limit)
	rentals, err := s.store.ListRentals(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing rentals: %w", err)
	}
	return rentals, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
