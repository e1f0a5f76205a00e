package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrUserNotFound    = &AppError{http.StatusNotFound, "USER_NOT_FOUND", "User not found"}
	ErrAdminNotFound   = &AppError{http.StatusNotFound, "ADMIN_NOT_FOUND", "Admin not found"}
	ErrAccountNotFound = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}

	ErrUserExists           = &AppError{http.StatusBadRequest, "USER_ALREADY_EXISTS", "User with this email already exists"}
	ErrInvalidSignature     = &AppError{http.StatusBadRequest, "INVALID_SIGNATURE", "Invalid signature"}
	ErrTransactionProcessed = &AppError{http.StatusBadRequest, "TRANSACTION_ALREADY_PROCESSED", "Transaction already processed"}
	ErrAccountOwnership     = &AppError{http.StatusBadRequest, "ACCOUNT_BELONGS_TO_ANOTHER_USER", "Account belongs to another user"}

	ErrInvalidCredentials       = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Could not validate credentials"}
	ErrIncorrectEmailOrPassword = &AppError{http.StatusUnauthorized, "INCORRECT_EMAIL_OR_PASSWORD", "Incorrect email or password"}

	ErrUserInactive  = &AppError{http.StatusForbidden, "USER_INACTIVE", "User is inactive"}
	ErrAdminInactive = &AppError{http.StatusForbidden, "ADMIN_INACTIVE", "Admin is inactive"}
)
