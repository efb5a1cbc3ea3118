package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"carrental/internal/service"
)

type AdminHandler struct {
	Cars    *service.CarService
	Rentals *service.RentalService
	log     *logrus.Logger
}

func NewAdminHandler(cars *service.CarService, rentals *service.RentalService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{Cars: cars, Rentals: rentals, log: log}
}

func (h *AdminHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	rentals, err := h.Rentals.List(r.Context(), offset, limit)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	responses := make([]RentalResponse, 0, len(rentals))
	for i := range rentals {
		responses = append(responses, newRentalResponse(&rentals[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

// SetCarAvailability forces the availability flag. This bypasses the booking
// state machine; it exists for desk corrections.
func (h *AdminHandler) SetCarAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid car id"))
		return
	}
	var req SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody(err.Error()))
		return
	}
	if err := h.Cars.SetAvailability(r.Context(), id, *req.Available); err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Car availability updated"})
}
