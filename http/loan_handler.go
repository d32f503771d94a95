package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"member-services/domain"
	"member-services/service"
)

type LoanHandler struct {
	engine *service.AmortizationEngine
	tenors *service.TenorRecommendationService
	logger *zap.Logger
}

func NewLoanHandler(
	engine *service.AmortizationEngine,
	tenors *service.TenorRecommendationService,
	logger *zap.Logger,
) *LoanHandler {
	return &LoanHandler{engine: engine, tenors: tenors, logger: logger}
}

// CalculateSchedule answers 422 when the form values cannot produce a
// schedule, including values that are not numbers; the page hides the table
// in that case. Only a body that is not JSON at all is a 400.
func (h *LoanHandler) CalculateSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var input domain.LoanScheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if malformedJSON(err) {
			writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
		writeServiceError(w, h.logger, fmt.Errorf("%w: %v", service.ErrInvalidScheduleInput, err))
		return
	}

	schedule, err := h.engine.Calculate(input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, schedule.Rounded(service.DisplayPlaces))
}

func malformedJSON(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func (h *LoanHandler) RecommendTenor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", "")
		return
	}

	var input domain.TenorRecommendationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Debug("decode tenor request", zap.Error(err))
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.tenors.RecommendTenor(input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
