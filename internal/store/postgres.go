package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"carrental/internal/db"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cars (
	id BIGSERIAL PRIMARY KEY,
	make TEXT NOT NULL,
	model TEXT NOT NULL,
	year INT NOT NULL,
	daily_rate DOUBLE PRECISION NOT NULL,
	available BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS rentals (
	id BIGSERIAL PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	car_id BIGINT NOT NULL REFERENCES cars(id),
	user_name TEXT NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NOT NULL,
	rental_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_rentals_car_id ON rentals (car_id);

CREATE TABLE IF NOT EXISTS admins (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
`

type postgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the networked relational backend and ensures the
// schema exists.
func OpenPostgres(databaseURL string) (Store, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening postgres connection: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}
	if _, err := sqlDB.Exec(postgresSchema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error ensuring postgres schema: %w", err)
	}
	return &postgresStore{db: sqlDB}, nil
}

func (s *postgresStore) Close() error { return s.db.Close() }

func (s *postgresStore) CreateCar(ctx context.Context, car *db.Car) error {
	query := `
		INSERT INTO cars (make, model, year, daily_rate, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		car.Make, car.Model, car.Year, car.DailyRate, car.Available,
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting car: %w", err)
	}
	return nil
}

func (s *postgresStore) GetCar(ctx context.Context, id int64) (*db.Car, error) {
	var car db.Car
	query := `
		SELECT id, make, model, year, daily_rate, available, created_at, updated_at
		FROM cars WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&car.ID, &car.Make, &car.Model, &car.Year, &car.DailyRate, &car.Available,
		&car.CreatedAt, &car.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("error querying car: %w", err)
	}
	return &car, nil
}

func (s *postgresStore) ListCars(ctx context.Context, offset, limit int) ([]db.Car, error) {
	query := `
		SELECT id, make, model, year, daily_rate, available, created_at, updated_at
		FROM cars ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing cars: %w", err)
	}
	defer rows.Close()

	var cars []db.Car
	for rows.Next() {
		var car db.Car
		if err := rows.Scan(
			&car.ID, &car.Make, &car.Model, &car.Year, &car.DailyRate, &car.Available,
			&car.CreatedAt, &car.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning car row: %w", err)
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

func (s *postgresStore) SetCarAvailability(ctx context.Context, id int64, available bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE cars SET available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return fmt.Errorf("error updating car availability: %w", err)
	}
	return carRowAffected(result)
}

func (s *postgresStore) GetRental(ctx context.Context, id int64) (*db.Rental, error) {
	var rental db.Rental
	query := `
		SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		FROM rentals WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rental.ID, &rental.Code, &rental.CarID, &rental.UserName,
		&rental.StartDate, &rental.EndDate, &rental.RentalDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("error querying rental: %w", err)
	}
	return &rental, nil
}

func (s *postgresStore) ListRentals(ctx context.Context, offset, limit int) ([]db.Rental, error) {
	query := `
		SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		FROM rentals ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing rentals: %w", err)
	}
	defer rows.Close()
	return scanRentalRows(rows)
}

func (s *postgresStore) ListOverdueRentals(ctx context.Context, now time.Time) ([]db.Rental, error) {
	query := `
		SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		FROM rentals WHERE end_date < $1 ORDER BY end_date`
	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error listing overdue rentals: %w", err)
	}
	defer rows.Close()
	return scanRentalRows(rows)
}

func (s *postgresStore) GetAdminByEmail(ctx context.Context, email string) (*db.Admin, error) {
	var admin db.Admin
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM admins WHERE email = $1`, email,
	).Scan(&admin.ID, &admin.Email, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("error querying admin: %w", err)
	}
	return &admin, nil
}

func (s *postgresStore) CreateAdmin(ctx context.Context, admin *db.Admin) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING id`,
		admin.Email, admin.PasswordHash,
	).Scan(&admin.ID)
	if err != nil {
		return fmt.Errorf("error inserting admin: %w", err)
	}
	return nil
}

func (s *postgresStore) WithTx(ctx context.Context, fn func(Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	if err := fn(&postgresTx{ctx: ctx, tx: sqlTx}); err != nil {
		sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

type postgresTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *postgresTx) GetCarForUpdate(id int64) (*db.Car, error) {
	var car db.Car
	query := `
		SELECT id, make, model, year, daily_rate, available, created_at, updated_at
		FROM cars WHERE id = $1 FOR UPDATE`
	err := t.tx.QueryRowContext(t.ctx, query, id).Scan(
		&car.ID, &car.Make, &car.Model, &car.Year, &car.DailyRate, &car.Available,
		&car.CreatedAt, &car.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("error locking car row: %w", err)
	}
	return &car, nil
}

func (t *postgresTx) SetCarAvailability(id int64, available bool) error {
	result, err := t.tx.ExecContext(t.ctx,
		`UPDATE cars SET available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return fmt.Errorf("error updating car availability: %w", err)
	}
	return carRowAffected(result)
}

func (t *postgresTx) HasOverlappingRental(carID int64, start, end time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM rentals
			WHERE car_id = $1 AND end_date >= $2 AND start_date <= $3
		)`
	if err := t.tx.QueryRowContext(t.ctx, query, carID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking rental overlap: %w", err)
	}
	return exists, nil
}

func (t *postgresTx) CreateRental(rental *db.Rental) error {
	query := `
		INSERT INTO rentals (code, car_id, user_name, start_date, end_date, rental_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := t.tx.QueryRowContext(t.ctx, query,
		rental.Code, rental.CarID, rental.UserName,
		rental.StartDate, rental.EndDate, rental.RentalDate,
	).Scan(&rental.ID)
	if err != nil {
		return fmt.Errorf("error inserting rental: %w", err)
	}
	return nil
}

func (t *postgresTx) GetRental(id int64) (*db.Rental, error) {
	var rental db.Rental
	query := `
		SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		FROM rentals WHERE id = $1`
	err := t.tx.QueryRowContext(t.ctx, query, id).Scan(
		&rental.ID, &rental.Code, &rental.CarID, &rental.UserName,
		&rental.StartDate, &rental.EndDate, &rental.RentalDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("error querying rental: %w", err)
	}
	return &rental, nil
}

func (t *postgresTx) DeleteRental(id int64) error {
	result, err := t.tx.ExecContext(t.ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting rental: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if affected == 0 {
		return ErrRentalNotFound
	}
	return nil
}

func carRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCarNotFound
	}
	return nil
}

func scanRentalRows(rows *sql.Rows) ([]db.Rental, error) {
	var rentals []db.Rental
	for rows.Next() {
		var rental db.Rental
		if err := rows.Scan(
			&rental.ID, &rental.Code, &rental.CarID, &rental.UserName,
			&rental.StartDate, &rental.EndDate, &rental.RentalDate,
		); err != nil {
			return nil, fmt.Errorf("error scanning rental row: %w", err)
		}
		rentals = append(rentals, rental)
	}
	return rentals, rows.Err()
}
