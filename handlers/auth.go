// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/middleware"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/store"
)

type AuthHandler struct {
	store  *store.Store
	issuer *auth.TokenIssuer
	cfg    cliparse.Config
}

func NewAuthHandler(s *store.Store, issuer *auth.TokenIssuer, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{store: s, issuer: issuer, cfg: cfg}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		middleware.WriteError(w, models.Invalid("email", "not a valid email address"))
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		middleware.WriteError(w, models.Invalid("password", "password must be at least %d characters", auth.MinPasswordLength))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	h.issue(w, r, user, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, models.ErrNotFound) {
		// Same answer, and the same bcrypt cost, as a wrong password.
		middleware.WriteError(w, fmt.Errorf("%w: %w", models.ErrUnauthenticated, auth.RejectUnknownUser(req.Password)))
		return
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		slog.Info("login failed", "user_id", user.ID, "ip", middleware.GetClientIP(r, h.cfg.TrustProxy))
		middleware.WriteError(w, fmt.Errorf("%w: %w", models.ErrUnauthenticated, err))
		return
	}

	h.issue(w, r, user, http.StatusOK)
}

// VerifyToken handles POST /api/v1/auth/verify-token
// The answer is a bare JSON boolean.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyTokenRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	_, err := h.issuer.Verify(req.Token)
	middleware.JSONResponse(w, http.StatusOK, err == nil)
}

// Logout handles POST /api/v1/auth/logout by expiring the token cookie.
// Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, expiresAt, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("failed to issue token", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.JSONResponse(w, status, models.TokenResponse{Token: token, ExpiresAt: expiresAt})
}
