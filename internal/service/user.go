package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/domain"
	"github.com/skurenkov/topup-ledger/internal/logging"
)

type CreateUserRequest struct {
	Email    string
	Password string
	FullName *string
}

type UpdateUserRequest struct {
	Email    *string
	Password *string
	FullName *string
	IsActive *bool
}

type UserService struct {
	users    userRepository
	accounts accountRepository
}

func NewUserService(users userRepository, accounts accountRepository) *UserService {
	return &UserService{users: users, accounts: accounts}
}

// CreateUser registers the user and provisions a zero-balance account for
// them. The email pre-check keeps the common failure cheap; the unique index
// on users.email backs it up.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	log := logging.FromContext(ctx)

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("CreateUser: %w", domain.ErrUserExists)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}

	user := &domain.User{
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       req.FullName,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}

	account := &domain.Account{UserID: user.ID, Balance: decimal.Zero}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateUser: create account: %w", err)
	}

	log.Info("user created", "user_id", user.ID, "account_id", account.ID)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetUserAccounts: %w", err)
	}
	return accounts, nil
}

// UpdateUser re-checks email uniqueness only when the email is changing.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("UpdateUser: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("UpdateUser: %w", domain.ErrUserExists)
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("UpdateUser: %w", err)
		}
		user.HashedPassword = hash
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user; the schema cascades to accounts and payments.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	logging.FromContext(ctx).Info("user deleted", "user_id", userID)
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	users, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}
