package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/domain"
	"github.com/skurenkov/topup-ledger/internal/handler"
)

type userGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type adminGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
}

// RequireUser validates a user-typed bearer token, loads the user record and
// gates on the active flag. The record lands in the request context.
func RequireUser(secret string, users userGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, appErr := bearerClaims(r, domain.SubjectUser, secret)
			if appErr != nil {
				handler.RespondAppError(w, appErr, nil)
				return
			}

			user, err := users.GetByID(r.Context(), claims.SubjectID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					handler.RespondAppError(w, handler.ErrInvalidCredentials, nil)
					return
				}
				handler.RespondAppError(w, handler.ErrInternalError, nil)
				return
			}
			if !user.IsActive {
				handler.RespondAppError(w, handler.ErrUserInactive, nil)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is the admin-typed counterpart of RequireUser.
func RequireAdmin(secret string, admins adminGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, appErr := bearerClaims(r, domain.SubjectAdmin, secret)
			if appErr != nil {
				handler.RespondAppError(w, appErr, nil)
				return
			}

			admin, err := admins.GetByID(r.Context(), claims.SubjectID)
			if err != nil {
				if errors.Is(err, domain.ErrAdminNotFound) {
					handler.RespondAppError(w, handler.ErrInvalidCredentials, nil)
					return
				}
				handler.RespondAppError(w, handler.ErrInternalError, nil)
				return
			}
			if !admin.IsActive {
				handler.RespondAppError(w, handler.ErrAdminInactive, nil)
				return
			}

			ctx := auth.ContextWithAdmin(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerClaims(r *http.Request, kind domain.SubjectKind, secret string) (*auth.Claims, *handler.AppError) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, handler.ErrMissingToken
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, handler.ErrInvalidCredentials
	}

	claims, err := auth.ValidateToken(token, kind, secret)
	if err != nil {
		return nil, handler.ErrInvalidCredentials
	}
	return claims, nil
}
