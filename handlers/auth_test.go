// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/middleware"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/testutil"
)

func tokenCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	return nil
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"email": "New.User@Example.com", "password": "long-enough"}
	w := httptest.NewRecorder()
	env.auth.Register(w, testutil.MakeRequest("POST", "/api/v1/auth/register", body, nil))

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.TokenResponse
	testutil.AssertJSON(t, w, &resp)

	id, err := env.issuer.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Expected a valid token, got %v", err)
	}
	if id.Email != "new.user@example.com" {
		t.Errorf("Expected lower-cased email in token, got %q", id.Email)
	}
	if resp.ExpiresAt.IsZero() {
		t.Error("Expected expires_at to be set")
	}

	c := tokenCookie(w)
	if c == nil {
		t.Fatal("Expected token cookie to be set")
	}
	if !c.HttpOnly || c.Value != resp.Token {
		t.Errorf("Expected HttpOnly cookie carrying the token, got %+v", c)
	}
}

func TestRegister_Rejections(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTestUser(t, env.db, "taken@example.com")

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"invalid email", map[string]string{"email": "not-an-email", "password": "long-enough"}, http.StatusBadRequest, models.CodeValidation},
		{"short password", map[string]string{"email": "a@example.com", "password": "short"}, http.StatusBadRequest, models.CodeValidation},
		{"duplicate email", map[string]string{"email": "TAKEN@example.com", "password": "long-enough"}, http.StatusConflict, models.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.auth.Register(w, testutil.MakeRequest("POST", "/api/v1/auth/register", tt.body, nil))

			testutil.AssertStatus(t, w, tt.wantStatus)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.db, "user@example.com")

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{"valid credentials", "user@example.com", testutil.TestPassword, http.StatusOK},
		{"email case ignored", "USER@example.com", testutil.TestPassword, http.StatusOK},
		{"wrong password", "user@example.com", "wrong-password", http.StatusUnauthorized},
		{"unknown email", "nobody@example.com", testutil.TestPassword, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]string{"email": tt.email, "password": tt.password}
			w := httptest.NewRecorder()
			env.auth.Login(w, testutil.MakeRequest("POST", "/api/v1/auth/login", body, nil))

			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				if tokenCookie(w) != nil {
					t.Error("Expected no cookie on failed login")
				}
				return
			}

			var resp models.TokenResponse
			testutil.AssertJSON(t, w, &resp)
			id, err := env.issuer.Verify(resp.Token)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if id.UserID != user.ID {
				t.Errorf("Expected user %s, got %s", user.ID, id.UserID)
			}
		})
	}
}

func TestLogin_UnknownEmailMatchesWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.db, "user@example.com")

	login := func(email string) (*httptest.ResponseRecorder, time.Duration) {
		body := map[string]string{"email": email, "password": "wrong-password"}
		w := httptest.NewRecorder()
		start := time.Now()
		env.auth.Login(w, testutil.MakeRequest("POST", "/api/v1/auth/login", body, nil))
		return w, time.Since(start)
	}

	wrong, _ := login("user@example.com")
	unknown, elapsed := login("nobody@example.com")

	testutil.AssertStatus(t, unknown, http.StatusUnauthorized)
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("Expected identical bodies, got %q and %q", unknown.Body.String(), wrong.Body.String())
	}

	start := time.Now()
	auth.CheckPassword(user.PasswordHash, "wrong-password")
	compare := time.Since(start)
	if elapsed < compare/4 {
		t.Errorf("Unknown email answered in %v, a password comparison takes %v", elapsed, compare)
	}
}

func TestVerifyToken(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.db, "user@example.com")
	token := testutil.CreateTestToken(t, env.cfg, user)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"valid", token, "true"},
		{"garbage", "not-a-token", "false"},
		{"empty", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]string{"token": tt.token}
			w := httptest.NewRecorder()
			env.auth.VerifyToken(w, testutil.MakeRequest("POST", "/api/v1/auth/verify-token", body, nil))

			testutil.AssertStatus(t, w, http.StatusOK)
			if got := strings.TrimSpace(w.Body.String()); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.auth.Logout(w, testutil.MakeRequest("POST", "/api/v1/auth/logout", nil, nil))

	testutil.AssertStatus(t, w, http.StatusNoContent)

	c := tokenCookie(w)
	if c == nil {
		t.Fatal("Expected logout to reset the token cookie")
	}
	if c.Value != "" || c.MaxAge >= 0 {
		t.Errorf("Expected an expired empty cookie, got %+v", c)
	}
}
