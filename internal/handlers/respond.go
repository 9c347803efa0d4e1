package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ktsuchiya/globalmatch-api/internal/batch"
	"github.com/ktsuchiya/globalmatch-api/internal/completion"
	"github.com/ktsuchiya/globalmatch-api/internal/extractor"
	"github.com/ktsuchiya/globalmatch-api/internal/history"
	"github.com/ktsuchiya/globalmatch-api/internal/share"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
	"github.com/ktsuchiya/globalmatch-api/internal/validator"
)

func respondJSON(w http.ResponseWriter, logger *utils.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError is the single boundary where domain errors become HTTP
// responses. Nothing propagates past it.
func respondError(w http.ResponseWriter, logger *utils.Logger, err error) {
	status, message := classifyError(err)

	logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func classifyError(err error) (int, string) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode, appErr.Message
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, valErr.Error()
	}

	var callErr *completion.CallError
	if errors.As(err, &callErr) {
		switch callErr.Kind {
		case completion.KindInvalidCredential:
			return http.StatusUnauthorized, callErr.Error()
		case completion.KindRateLimited:
			return http.StatusTooManyRequests, callErr.Error()
		case completion.KindTimedOut:
			return http.StatusGatewayTimeout, callErr.Error()
		default:
			return http.StatusBadGateway, callErr.Error()
		}
	}

	var pagesErr *extractor.TooManyPagesError
	switch {
	case errors.Is(err, batch.ErrNoItems),
		errors.Is(err, batch.ErrTooManyItems),
		errors.Is(err, history.ErrMalformedDocument),
		errors.Is(err, history.ErrParse),
		errors.Is(err, extractor.ErrNoText),
		errors.As(err, &pagesErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, share.ErrDisabled):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, share.ErrNotFound):
		return http.StatusNotFound, err.Error()
	}

	return http.StatusInternalServerError, "Internal server error"
}
