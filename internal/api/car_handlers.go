package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"carrental/internal/db"
	"carrental/internal/service"
)

type CarHandler struct {
	Service *service.CarService
	log     *logrus.Logger
}

func NewCarHandler(svc *service.CarService, log *logrus.Logger) *CarHandler {
	return &CarHandler{Service: svc, log: log}
}

func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody(err.Error()))
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	car := &db.Car{
		Make:      req.Make,
		Model:     req.Model,
		Year:      req.Year,
		DailyRate: req.DailyRate,
		Available: available,
	}
	if err := h.Service.Register(r.Context(), car); err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCarResponse(car))
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid car id"))
		return
	}
	car, err := h.Service.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newCarResponse(car))
}

func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	cars, err := h.Service.List(r.Context(), offset, limit)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	responses := make([]CarResponse, 0, len(cars))
	for i := range cars {
		responses = append(responses, newCarResponse(&cars[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func pageParams(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return offset, limit
}
