package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	if appErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	RespondJSON(w, appErr.Status, errorResponse{
		Error: APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError translates a domain sentinel to its fixed status code.
// This is the single place domain errors become HTTP.
func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		appErr = ErrUserNotFound
	case errors.Is(err, domain.ErrAdminNotFound):
		appErr = ErrAdminNotFound
	case errors.Is(err, domain.ErrAccountNotFound):
		appErr = ErrAccountNotFound
	case errors.Is(err, domain.ErrUserExists):
		appErr = ErrUserExists
	case errors.Is(err, domain.ErrInvalidSignature):
		appErr = ErrInvalidSignature
	case errors.Is(err, domain.ErrTransactionProcessed):
		appErr = ErrTransactionProcessed
	case errors.Is(err, domain.ErrAccountOwnership):
		appErr = ErrAccountOwnership
	case errors.Is(err, domain.ErrInvalidCredentials):
		appErr = ErrInvalidCredentials
	case errors.Is(err, domain.ErrIncorrectEmailOrPassword):
		appErr = ErrIncorrectEmailOrPassword
	case errors.Is(err, domain.ErrUserInactive):
		appErr = ErrUserInactive
	case errors.Is(err, domain.ErrAdminInactive):
		appErr = ErrAdminInactive
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
