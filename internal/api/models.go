package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"carrental/internal/db"
)

// Car
type CreateCarRequest struct {
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	DailyRate float64 `json:"daily_rate"`
	Available *bool   `json:"available"`
}

func (r CreateCarRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Make, validation.Required),
		validation.Field(&r.Model, validation.Required),
		validation.Field(&r.Year, validation.Required, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.DailyRate, validation.Min(0.0)),
	)
}

type CarResponse struct {
	ID        int64   `json:"id"`
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	DailyRate float64 `json:"daily_rate"`
	Available bool    `json:"available"`
}

func newCarResponse(car *db.Car) CarResponse {
	return CarResponse{
		ID:        car.ID,
		Make:      car.Make,
		Model:     car.Model,
		Year:      car.Year,
		DailyRate: car.DailyRate,
		Available: car.Available,
	}
}

// Rental
type CreateRentalRequest struct {
	UserName  string `json:"user_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r CreateRentalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserName, validation.Required),
		validation.Field(&r.StartDate, validation.Required),
		validation.Field(&r.EndDate, validation.Required),
	)
}

type RentalResponse struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	CarID      int64     `json:"car_id"`
	UserName   string    `json:"user_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	RentalDate time.Time `json:"rental_date"`
}

func newRentalResponse(rental *db.Rental) RentalResponse {
	return RentalResponse{
		ID:         rental.ID,
		Code:       rental.Code,
		CarID:      rental.CarID,
		UserName:   rental.UserName,
		StartDate:  rental.StartDate,
		EndDate:    rental.EndDate,
		RentalDate: rental.RentalDate,
	}
}

// Admin
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available"`
}

func (r SetAvailabilityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Available, validation.NotNil),
	)
}
