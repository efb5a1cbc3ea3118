// Package store holds the persistence boundary: an abstract Store interface
// with one adapter per backend (Postgres and SQLite). The backend is chosen
// once at startup from configuration.
package store

import (
	"context"
	"errors"
	"time"

	"carrental/internal/db"
)

var (
	ErrCarNotFound    = errors.New("car not found")
	ErrRentalNotFound = errors.New("rental not found")
	ErrAdminNotFound  = errors.New("admin not found")
)

// Store is the persistence handle injected into the services. All reads and
// writes that must be isolated from concurrent writers go through WithTx; the
// store's transaction, not application locking, is the concurrency boundary.
type Store interface {
	CreateCar(ctx context.Context, car *db.Car) error
	GetCar(ctx context.Context, id int64) (*db.Car, error)
	ListCars(ctx context.Context, offset, limit int) ([]db.Car, error)
	SetCarAvailability(ctx context.Context, id int64, available bool) error

	GetRental(ctx context.Context, id int64) (*db.Rental, error)
	ListRentals(ctx context.Context, offset, limit int) ([]db.Rental, error)
	// ListOverdueRentals returns rentals whose end date has passed but that
	// are still on record.
	ListOverdueRentals(ctx context.Context, now time.Time) ([]db.Rental, error)

	GetAdminByEmail(ctx context.Context, email string) (*db.Admin, error)
	CreateAdmin(ctx context.Context, admin *db.Admin) error

	// WithTx runs fn inside a single transaction. Any error from fn rolls
	// the transaction back and is returned unchanged.
	WithTx(ctx context.Context, fn func(Tx) error) error

	Close() error
}

// Tx is the transactional view used by Reserve and Cancel so that the
// validation reads and the paired rental/flag writes commit as one unit.
type Tx interface {
	GetCarForUpdate(id int64) (*db.Car, error)
	SetCarAvailability(id int64, available bool) error
	// HasOverlappingRental reports whether any rental for the car intersects
	// [start, end] with inclusive bounds, so touching endpoints conflict.
	HasOverlappingRental(carID int64, start, end time.Time) (bool, error)
	CreateRental(rental *db.Rental) error
	GetRental(id int64) (*db.Rental, error)
	DeleteRental(id int64) error
}
