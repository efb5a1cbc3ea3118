package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"carrental/internal/service"
)

type RentalHandler struct {
	Service *service.RentalService
	log     *logrus.Logger
}

func NewRentalHandler(svc *service.RentalService, log *logrus.Logger) *RentalHandler {
	return &RentalHandler{Service: svc, log: log}
}

func (h *RentalHandler) RentCar(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid car id"))
		return
	}

	var req CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody(err.Error()))
		return
	}

	rental, err := h.Service.Reserve(r.Context(), carID, service.RentalRequest{
		UserName:  req.UserName,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRentalResponse(rental))
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid rental id"))
		return
	}
	rental, err := h.Service.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newRentalResponse(rental))
}

func (h *RentalHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid rental id"))
		return
	}
	if err := h.Service.Cancel(r.Context(), id); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
