package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"carrental/internal/db"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cars (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	make TEXT NOT NULL,
	model TEXT NOT NULL,
	year INTEGER NOT NULL,
	daily_rate REAL NOT NULL,
	available BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS rentals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	car_id INTEGER NOT NULL REFERENCES cars(id),
	user_name TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	rental_date DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rentals_car_id ON rentals (car_id);

CREATE TABLE IF NOT EXISTS admins (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
`

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens the embedded file-based backend and ensures the schema
// exists. Transactions take the write lock up front so concurrent Reserve
// calls serialize at the store.
func OpenSQLite(path string) (Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_fk=1&_txlock=immediate", path)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error connecting to sqlite: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error ensuring sqlite schema: %w", err)
	}
	return &sqliteStore{db: sqlDB}, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) CreateCar(ctx context.Context, car *db.Car) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO cars (make, model, year, daily_rate, available, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		car.Make, car.Model, car.Year, car.DailyRate, car.Available, now, now,
	)
	if err != nil {
		return fmt.Errorf("error inserting car: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted car id: %w", err)
	}
	car.ID = id
	car.CreatedAt = now
	car.UpdatedAt = now
	return nil
}

func (s *sqliteStore) GetCar(ctx context.Context, id int64) (*db.Car, error) {
	return scanCar(s.db.QueryRowContext(ctx,
		`SELECT id, make, model, year, daily_rate, available, created_at, updated_at
		 FROM cars WHERE id = ?`, id))
}

func (s *sqliteStore) ListCars(ctx context.Context, offset, limit int) ([]db.Car, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, make, model, year, daily_rate, available, created_at, updated_at
		 FROM cars ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
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

func (s *sqliteStore) SetCarAvailability(ctx context.Context, id int64, available bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE cars SET available = ?, updated_at = ? WHERE id = ?`,
		available, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("error updating car availability: %w", err)
	}
	return carRowAffected(result)
}

func (s *sqliteStore) GetRental(ctx context.Context, id int64) (*db.Rental, error) {
	return scanRental(s.db.QueryRowContext(ctx,
		`SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		 FROM rentals WHERE id = ?`, id))
}

func (s *sqliteStore) ListRentals(ctx context.Context, offset, limit int) ([]db.Rental, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		 FROM rentals ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing rentals: %w", err)
	}
	defer rows.Close()
	return scanRentalRows(rows)
}

func (s *sqliteStore) ListOverdueRentals(ctx context.Context, now time.Time) ([]db.Rental, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		 FROM rentals WHERE datetime(end_date) < datetime(?) ORDER BY end_date`,
		now.UTC())
	if err != nil {
		return nil, fmt.Errorf("error listing overdue rentals: %w", err)
	}
	defer rows.Close()
	return scanRentalRows(rows)
}

func (s *sqliteStore) GetAdminByEmail(ctx context.Context, email string) (*db.Admin, error) {
	var admin db.Admin
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM admins WHERE email = ?`, email,
	).Scan(&admin.ID, &admin.Email, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("error querying admin: %w", err)
	}
	return &admin, nil
}

func (s *sqliteStore) CreateAdmin(ctx context.Context, admin *db.Admin) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (email, password_hash) VALUES (?, ?)`,
		admin.Email, admin.PasswordHash)
	if err != nil {
		return fmt.Errorf("error inserting admin: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted admin id: %w", err)
	}
	admin.ID = id
	return nil
}

func (s *sqliteStore) WithTx(ctx context.Context, fn func(Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	if err := fn(&sqliteTx{ctx: ctx, tx: sqlTx}); err != nil {
		sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
}

// GetCarForUpdate has no row lock to take: the immediate transaction already
// holds the database write lock.
func (t *sqliteTx) GetCarForUpdate(id int64) (*db.Car, error) {
	return scanCar(t.tx.QueryRowContext(t.ctx,
		`SELECT id, make, model, year, daily_rate, available, created_at, updated_at
		 FROM cars WHERE id = ?`, id))
}

func (t *sqliteTx) SetCarAvailability(id int64, available bool) error {
	result, err := t.tx.ExecContext(t.ctx,
		`UPDATE cars SET available = ?, updated_at = ? WHERE id = ?`,
		available, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("error updating car availability: %w", err)
	}
	return carRowAffected(result)
}

func (t *sqliteTx) HasOverlappingRental(carID int64, start, end time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM rentals
			WHERE car_id = ?
			  AND datetime(end_date) >= datetime(?)
			  AND datetime(start_date) <= datetime(?)
		)`
	if err := t.tx.QueryRowContext(t.ctx, query, carID, start.UTC(), end.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking rental overlap: %w", err)
	}
	return exists, nil
}

func (t *sqliteTx) CreateRental(rental *db.Rental) error {
	result, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO rentals (code, car_id, user_name, start_date, end_date, rental_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rental.Code, rental.CarID, rental.UserName,
		rental.StartDate.UTC(), rental.EndDate.UTC(), rental.RentalDate.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error inserting rental: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted rental id: %w", err)
	}
	rental.ID = id
	return nil
}

func (t *sqliteTx) GetRental(id int64) (*db.Rental, error) {
	return scanRental(t.tx.QueryRowContext(t.ctx,
		`SELECT id, code, car_id, user_name, start_date, end_date, rental_date
		 FROM rentals WHERE id = ?`, id))
}

func (t *sqliteTx) DeleteRental(id int64) error {
	result, err := t.tx.ExecContext(t.ctx, `DELETE FROM rentals WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCar(row rowScanner) (*db.Car, error) {
	var car db.Car
	err := row.Scan(
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

func scanRental(row rowScanner) (*db.Rental, error) {
	var rental db.Rental
	err := row.Scan(
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
