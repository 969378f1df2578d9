package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dripsave/savings-service/internal/integrations/aggregator"
	"github.com/dripsave/savings-service/internal/models"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeError maps an error onto the failure envelope. Field-level validation
// errors pass a map, business-rule errors pass a message string. Aggregator
// failures relay the upstream payload verbatim so the caller can render
// aggregator-specific guidance.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *aggregator.APIError
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write(apiErr.Body)
		return
	}

	switch {
	case errors.Is(err, models.ErrDuplicateAccount):
		writeErrorMessage(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, models.ErrInsufficientFunds):
		writeErrorMessage(w, http.StatusBadRequest, "Withdrawing amount greater than total savings")
	case errors.Is(err, models.ErrAlreadyActive):
		writeErrorMessage(w, http.StatusBadRequest, "Already active")
	case errors.Is(err, models.ErrAlreadyPaused):
		writeErrorMessage(w, http.StatusBadRequest, "Already not active")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrNotFound):
		writeErrorMessage(w, http.StatusUnauthorized, "Account not found")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeErrorMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"errors": msg})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
}
