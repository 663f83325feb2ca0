// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/ratelimit"
)

// TokenCookie is the HttpOnly cookie set at login.
const TokenCookie = "jwt"

// Authenticator guards handlers with bearer token verification.
type Authenticator struct {
	issuer *auth.TokenIssuer
}

func NewAuthenticator(issuer *auth.TokenIssuer) *Authenticator {
	return &Authenticator{issuer: issuer}
}

// RequireAuth verifies the caller's token and puts the identity in the
// request context. Same-site GET and HEAD requests may carry the token in
// the login cookie instead of the Authorization header.
func (a *Authenticator) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" && cookieAllowed(r) {
			if c, err := r.Cookie(TokenCookie); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			WriteError(w, fmt.Errorf("%w: missing bearer token", models.ErrUnauthenticated))
			return
		}

		id, err := a.issuer.Verify(token)
		if err != nil {
			slog.Debug("token rejected", "path", r.URL.Path, "error", err)
			WriteError(w, err)
			return
		}

		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// cookieAllowed reports whether r may authenticate with the login cookie.
// Requests a browser marks as cross-site must send a bearer header.
func cookieAllowed(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return r.Header.Get("Sec-Fetch-Site") != "cross-site"
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RateLimit refuses requests once the client IP has used its budget.
// If the limiter itself fails the request is let through.
func RateLimit(l ratelimit.Limiter, trustProxy bool, retryAfterSeconds int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r, trustProxy)

		ok, err := l.Allow(r.Context(), ip)
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
			ok = true
		}
		if !ok {
			slog.Info("rate limited", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
			JSONResponse(w, http.StatusTooManyRequests, models.ErrorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Message: "too many attempts, try again later",
				Code:    models.CodeRateLimited,
			})
			return
		}

		next(w, r)
	}
}
