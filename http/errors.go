package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"member-services/service"
)

// errorResponse is the JSON error envelope of every endpoint.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Details: details})
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("encode response", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("write response", zap.Error(err))
	}
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var rejected *service.CheckoutRejectedError
	switch {
	case errors.As(err, &rejected):
		status := rejected.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		writeJSONError(w, status, rejected.Message, "")
	case errors.Is(err, service.ErrInvalidScheduleInput),
		errors.Is(err, service.ErrNoAffordableTenor):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error(), "")
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrStockExceeded):
		writeJSONError(w, http.StatusConflict, err.Error(), "")
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidShopType),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidTenorRequest),
		errors.Is(err, service.ErrEmptyCart):
		writeJSONError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, service.ErrLineNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error(), "")
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
