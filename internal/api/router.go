package api

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"carrental/internal/auth"
	"carrental/internal/service"
)

// NewRouter mounts the public booking surface and the JWT-protected admin
// surface.
func NewRouter(
	cars *service.CarService,
	rentals *service.RentalService,
	adminAuth *service.AdminAuthService,
	jwtSecret string,
	log *logrus.Logger,
) *mux.Router {
	carHandler := NewCarHandler(cars, log)
	rentalHandler := NewRentalHandler(rentals, log)
	adminHandler := NewAdminHandler(cars, rentals, log)
	adminAuthHandler := NewAdminAuthHandler(adminAuth, log)

	r := mux.NewRouter()

	// Public endpoints (the paths the frontend calls).
	r.HandleFunc("/cars/", carHandler.CreateCar).Methods("POST")
	r.HandleFunc("/cars/", carHandler.ListCars).Methods("GET")
	r.HandleFunc("/cars/{id}", carHandler.GetCar).Methods("GET")
	r.HandleFunc("/cars/{id}/rent", rentalHandler.RentCar).Methods("POST")
	r.HandleFunc("/rentals/{id}", rentalHandler.GetRental).Methods("GET")
	r.HandleFunc("/rentals/{id}", rentalHandler.CancelRental).Methods("DELETE")

	// Admin endpoints (protected).
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(jwtSecret))
	admin.HandleFunc("/rentals", adminHandler.ListRentals).Methods("GET")
	admin.HandleFunc("/cars/{id}/availability", adminHandler.SetCarAvailability).Methods("PUT")

	return r
}
