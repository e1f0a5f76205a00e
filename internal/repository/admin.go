package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

const adminColumns = `id, email, hashed_password, full_name, is_active`

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id,
	)
	a, err := scanAdmin(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrAdminNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email,
	)
	a, err := scanAdmin(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByEmail: %w", domain.ErrAdminNotFound)
		}
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return a, nil
}

func scanAdmin(s scanner) (*domain.Admin, error) {
	var a domain.Admin
	err := s.Scan(&a.ID, &a.Email, &a.HashedPassword, &a.FullName, &a.IsActive)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
