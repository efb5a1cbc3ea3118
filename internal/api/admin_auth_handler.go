package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"carrental/internal/service"
)

type AdminAuthHandler struct {
	Service *service.AdminAuthService
	log     *logrus.Logger
}

func NewAdminAuthHandler(svc *service.AdminAuthService, log *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{Service: svc, log: log}
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody(err.Error()))
		return
	}

	token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, detailBody("Invalid credentials"))
			return
		}
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}
