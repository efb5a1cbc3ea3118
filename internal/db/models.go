package db

import "time"

type Car struct {
	ID        int64
	Make      string
	Model     string
	Year      int
	DailyRate float64
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Rental struct {
	ID         int64
	Code       string
	CarID      int64
	UserName   string
	StartDate  time.Time
	EndDate    time.Time
	RentalDate time.Time
}

type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
}
