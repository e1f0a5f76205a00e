package service

import (
	"context"
	"fmt"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

type AdminService struct {
	admins   adminRepository
	accounts accountRepository
}

func NewAdminService(admins adminRepository, accounts accountRepository) *AdminService {
	return &AdminService{admins: admins, accounts: accounts}
}

func (s *AdminService) GetAdmin(ctx context.Context, adminID int64) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("GetAdmin: %w", err)
	}
	return admin, nil
}

func (s *AdminService) GetUserAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetUserAccounts: %w", err)
	}
	return accounts, nil
}
