package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"contacts_project/internal/domain"
	"contacts_project/internal/httperr"
	"contacts_project/internal/utils"
	"contacts_project/internal/utils/blacklist"
)

// UserStore is the persistence surface for registration and login.
// *repository.UserRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type AuthHandler struct {
	users     UserStore
	blacklist blacklist.Blacklist
	secretKey string
}

func NewAuthHandler(users UserStore, bl blacklist.Blacklist, secretKey string) *AuthHandler {
	return &AuthHandler{users: users, blacklist: bl, secretKey: secretKey}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("email and password are required"))
		return
	}

	ctx := r.Context()
	exists, err := h.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	if exists {
		httperr.Write(w, httperr.ErrConflict.WithDetail("email already registered"))
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	user := &domain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Role:     domain.RoleUser,
	}
	if err := h.users.Create(ctx, user); err != nil {
		httperr.Write(w, err)
		return
	}

	token, err := utils.GenerateToken(user, h.secretKey)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, httperr.ErrBadRequest.WithDetail("invalid request body"))
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		httperr.Write(w, httperr.ErrUnauthorized.WithDetail("invalid email or password"))
		return
	}
	if err := utils.VerifyPassword(user.Password, req.Password); err != nil {
		httperr.Write(w, httperr.ErrUnauthorized.WithDetail("invalid email or password"))
		return
	}

	token, err := utils.GenerateToken(user, h.secretKey)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Logout blacklists the presented token for the remainder of its lifetime.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString, err := utils.ExtractTokenFromRequest(r)
	if err != nil {
		httperr.Write(w, httperr.ErrUnauthorized.WithDetail(err.Error()))
		return
	}

	claims, err := utils.ParseAndValidateToken(tokenString, h.secretKey)
	if err != nil {
		httperr.Write(w, httperr.ErrUnauthorized.WithDetail("invalid token"))
		return
	}

	ttl := utils.TokenTTL
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if h.blacklist != nil {
		if err := h.blacklist.BanToken(r.Context(), tokenString, ttl); err != nil {
			httperr.Write(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
