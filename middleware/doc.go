// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request completion with method, path, status and duration_ms.

# Authentication

RequireAuth verifies the bearer token and stores the identity in the
request context, where handlers read it with auth.IdentityFrom:

	authn := middleware.NewAuthenticator(issuer)
	mux.HandleFunc("POST /api/v1/polls", middleware.WithLogging(authn.RequireAuth(h.Create)))

# Rate Limiting

	middleware.RateLimit(limiter, cfg.TrustProxy, 60, authHandler.Login)

Over-budget clients get 429 with Retry-After. Clients are keyed on the
connection address; forwarding headers count only with TrustProxy.

# CORS Middleware

	server := http.Server{Handler: middleware.CORS(cfg.CORSOrigin, mux)}

Only origins in CORSOrigin get Access-Control-Allow-Credentials. RequireAuth
ignores the login cookie on requests the browser marks cross-site.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
	middleware.WriteError(w, err)

WriteError maps the models error taxonomy onto status codes:

	ErrUnauthenticated     401
	ErrForbidden           403
	ErrNotFound            404
	ErrValidation          400 (with field)
	ErrPollClosed          409 poll_closed
	ErrAlreadyVoted        409 already_voted
	ErrConflict            409 conflict
	ErrStorageUnavailable  503 with Retry-After
*/
package middleware
