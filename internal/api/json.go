package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"carrental/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// detailBody matches what the frontend reads from error responses
// (error.response.data.detail).
func detailBody(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

func respondError(w http.ResponseWriter, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detailBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusBadRequest, detailBody(err.Error()))
	default:
		log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, detailBody("Internal server error"))
	}
}
