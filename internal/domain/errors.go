package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAdminNotFound   = errors.New("admin not found")
	ErrAccountNotFound = errors.New("account not found")

	ErrUserExists           = errors.New("user with this email already exists")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrTransactionProcessed = errors.New("transaction already processed")
	ErrAccountOwnership     = errors.New("account belongs to another user")

	ErrInvalidCredentials       = errors.New("could not validate credentials")
	ErrIncorrectEmailOrPassword = errors.New("incorrect email or password")

	ErrUserInactive  = errors.New("user is inactive")
	ErrAdminInactive = errors.New("admin is inactive")
)
