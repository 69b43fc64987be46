package middleware

import (
	"context"
	"errors"
	"net/http"

	"contacts_project/internal/domain"
	"contacts_project/internal/httperr"
	"contacts_project/internal/utils"
	"contacts_project/internal/utils/blacklist"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates the bearer token, rejects blacklisted tokens and banned
// users, resolves the user record and stores it in the request context.
// Anything short of a valid credential for an existing user is a 401.
func Auth(secretKey string, users UserFinder, bl blacklist.Blacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := utils.ExtractTokenFromRequest(r)
			if err != nil {
				httperr.Write(w, httperr.ErrUnauthorized.WithDetail(err.Error()))
				return
			}

			claims, err := utils.ParseAndValidateToken(tokenString, secretKey)
			if err != nil {
				httperr.Write(w, httperr.ErrUnauthorized.WithDetail("invalid token"))
				return
			}

			ctx := r.Context()
			if bl != nil {
				if err := bl.CheckToken(ctx, tokenString); err != nil {
					if errors.Is(err, blacklist.ErrTokenBlacklisted) {
						httperr.Write(w, httperr.ErrUnauthorized.WithDetail("token is revoked"))
					} else {
						httperr.Write(w, httperr.ErrInternal)
					}
					return
				}
				if err := bl.CheckUser(ctx, claims.ID); err != nil {
					if errors.Is(err, blacklist.ErrUserBanned) {
						httperr.Write(w, httperr.ErrForbidden.WithDetail("user is banned"))
					} else {
						httperr.Write(w, httperr.ErrInternal)
					}
					return
				}
			}

			user, err := users.FindByID(ctx, claims.ID)
			if err != nil {
				httperr.Write(w, httperr.ErrUnauthorized.WithDetail("user not found"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}
