package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"solana-cluster-monitor/internal/clustering"
	"solana-cluster-monitor/internal/helius"
	"solana-cluster-monitor/internal/solana"
	"solana-cluster-monitor/internal/storage"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

// validationError marks bad query or path input.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var ve *validationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, clustering.ErrInvalidParams),
		errors.Is(err, solana.ErrInvalidAddress):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case helius.IsFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v before touching the response so an encoding failure
// still yields a well-formed 500.
func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		code = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Detail: "Failed to encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorResponse{Detail: detail})
}
