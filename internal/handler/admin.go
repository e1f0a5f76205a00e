package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/domain"
	"github.com/skurenkov/topup-ledger/internal/logging"
	"github.com/skurenkov/topup-ledger/internal/service"
)

type adminUserService interface {
	CreateUser(ctx context.Context, req service.CreateUserRequest) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	UpdateUser(ctx context.Context, userID int64, req service.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
}

type adminAccountService interface {
	GetUserAccounts(ctx context.Context, userID int64) ([]domain.Account, error)
}

type AdminHandler struct {
	users    adminUserService
	accounts adminAccountService
}

func NewAdminHandler(users adminUserService, accounts adminAccountService) *AdminHandler {
	return &AdminHandler{users: users, accounts: accounts}
}

type adminDTO struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, ok := auth.AdminFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}
	RespondJSON(w, http.StatusOK, adminDTO{ID: admin.ID, Email: admin.Email, FullName: admin.FullName})
}

type createUserRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

func (req createUserRequest) validate() []FieldError {
	var errs []FieldError
	if req.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	return errs
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	user, err := h.users.CreateUser(r.Context(), service.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to create user", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toUserDTO(user))
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	users, err := h.users.ListUsers(r.Context(), skip, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list users", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]userDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	RespondJSON(w, http.StatusOK, dtos)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, appErr := userIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toUserDTO(user))
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, appErr := userIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), userID, service.UpdateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		IsActive: req.IsActive,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to update user", "user_id", userID, "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, appErr := userIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) GetUserAccounts(w http.ResponseWriter, r *http.Request) {
	userID, appErr := userIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	accounts, err := h.accounts.GetUserAccounts(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list user accounts", "user_id", userID, "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toAccountDTOs(accounts))
}

func userIDFromPath(r *http.Request) (int64, *AppError) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUserNotFound
	}
	return id, nil
}
