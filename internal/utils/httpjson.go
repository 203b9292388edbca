package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"ms-booking/internal/apperrors"
)

type errorDetail struct {
	Detail string `json:"detail"`
}

// StatusFromError maps an error to its fixed HTTP status code.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as a JSON error payload with its mapped status.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFromError(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = "internal server error"
	}
	WriteJSON(w, status, errorDetail{Detail: detail})
}

// WriteJSON renders v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// BadRequest renders a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, errorDetail{Detail: msg})
}
