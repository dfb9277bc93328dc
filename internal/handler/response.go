package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"evaluation/internal/service"
)

// Error codes carried in the error body.
const (
	CodeValidation      = "ValidationError"
	CodeAlreadyExisting = "AlreadyExistingUsername"
	CodeNotFound        = "UserNotFound"
	CodeUnknown         = "UnknownError"
	CodeUnavailable     = "Unavailable"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service sentinels onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidSortColumn):
		writeError(w, http.StatusBadRequest, CodeValidation, err)
	case errors.Is(err, service.ErrAlreadyExistingName):
		writeError(w, http.StatusBadRequest, CodeAlreadyExisting, err)
	case errors.Is(err, service.ErrReviewerNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, CodeUnknown, errors.New("unknown server error"))
	}
}
