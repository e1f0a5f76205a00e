package auth

import (
	"context"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

type userKey struct{}
type adminKey struct{}

func ContextWithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok
}

func ContextWithAdmin(ctx context.Context, a *domain.Admin) context.Context {
	return context.WithValue(ctx, adminKey{}, a)
}

func AdminFromContext(ctx context.Context) (*domain.Admin, bool) {
	a, ok := ctx.Value(adminKey{}).(*domain.Admin)
	return a, ok
}
