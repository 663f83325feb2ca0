// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/veo/models"
)

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// WriteError maps err onto its HTTP status and writes the error body.
// Storage failures are logged and reported without driver detail.
func WriteError(w http.ResponseWriter, err error) {
	code := models.Code(err)
	resp := models.ErrorResponse{Code: code, Message: err.Error()}
	status := http.StatusInternalServerError

	switch code {
	case models.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case models.CodeForbidden:
		status = http.StatusForbidden
	case models.CodeNotFound:
		status = http.StatusNotFound
	case models.CodeValidation:
		status = http.StatusBadRequest
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			resp.Field = ve.Field
			resp.Message = ve.Message
		}
	case models.CodePollClosed, models.CodeAlreadyVoted:
		status = http.StatusConflict
	case models.CodeConflict:
		status = http.StatusConflict
		resp.Message = "request conflicts with existing data"
		slog.Warn("conflict", "error", err)
	case models.CodeStorageUnavailable:
		status = http.StatusServiceUnavailable
		resp.Message = "storage temporarily unavailable"
		w.Header().Set("Retry-After", "1")
		slog.Error("storage unavailable", "error", err)
	case models.CodeCanceled:
		// The client is usually gone; the status is for the log line.
		status = http.StatusServiceUnavailable
		resp.Message = "request canceled"
	default:
		resp.Message = "internal server error"
		slog.Error("unhandled error", "error", err)
	}

	resp.Error = http.StatusText(status)
	JSONResponse(w, status, resp)
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS allows cross-origin requests from the configured origins, a comma
// separated list. Only listed origins are echoed back with credentials.
// With no list, any origin may call the API with a bearer header but the
// browser never shares cookie-authenticated responses.
func CORS(allowedOrigins string, next http.Handler) http.Handler {
	allowed := parseOrigins(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(allowed, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Add("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func parseOrigins(list string) []string {
	var origins []string
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// GetClientIP returns the address rate limits are keyed on. Forwarding
// headers are client controlled, so they are read only when trustProxy is
// set; the proxy's own entry is the last one in X-Forwarded-For.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if last := strings.TrimSpace(parts[len(parts)-1]); last != "" {
				return last
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.Trim(r.RemoteAddr, "[]")
	}
	return host
}
