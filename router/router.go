// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/db"
	"github.com/danielhkuo/veo/handlers"
	"github.com/danielhkuo/veo/middleware"
	"github.com/danielhkuo/veo/ratelimit"
	"github.com/danielhkuo/veo/store"
	"github.com/danielhkuo/veo/tally"
	"github.com/danielhkuo/veo/voting"
)

// authRetryAfter is the Retry-After hint, in seconds, for throttled logins.
const authRetryAfter = 60

// Router is the API mux plus the resources its routes hold open.
type Router struct {
	*http.ServeMux
	limiter ratelimit.Limiter
}

// Close stops the login rate limiter.
func (rt *Router) Close() error {
	return rt.limiter.Close()
}

func NewRouter(conn *sql.DB, cfg cliparse.Config) (*Router, error) {
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	// One store so every handler shares the per-poll locks
	pollStore := store.New(conn, dialect)
	engine, err := voting.NewEngine(pollStore, nil)
	if err != nil {
		return nil, err
	}
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authn := middleware.NewAuthenticator(issuer)
	limiter := newLimiter(cfg)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(pollStore, cfg)
	votingHandler := handlers.NewVotingHandler(engine, cfg)
	resultsHandler := handlers.NewResultsHandler(tally.NewService(pollStore), cfg)
	authHandler := handlers.NewAuthHandler(pollStore, issuer, cfg)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts (public, throttled per client IP)
	mux.HandleFunc("POST /api/v1/auth/register", middleware.WithLogging(middleware.RateLimit(limiter, cfg.TrustProxy, authRetryAfter, authHandler.Register)))
	mux.HandleFunc("POST /api/v1/auth/login", middleware.WithLogging(middleware.RateLimit(limiter, cfg.TrustProxy, authRetryAfter, authHandler.Login)))
	mux.HandleFunc("POST /api/v1/auth/verify-token", middleware.WithLogging(authHandler.VerifyToken))
	mux.HandleFunc("POST /api/v1/auth/logout", middleware.WithLogging(authHandler.Logout))

	// Polls (authenticated)
	mux.HandleFunc("GET /api/v1/polls", middleware.WithLogging(authn.RequireAuth(pollHandler.ListMyPolls)))
	mux.HandleFunc("POST /api/v1/polls", middleware.WithLogging(authn.RequireAuth(pollHandler.CreatePoll)))
	mux.HandleFunc("GET /api/v1/polls/{pollId}", middleware.WithLogging(authn.RequireAuth(pollHandler.GetPoll)))
	mux.HandleFunc("PUT /api/v1/polls/edit/{pollId}", middleware.WithLogging(authn.RequireAuth(pollHandler.EditPoll)))

	// Voting and results (authenticated)
	mux.HandleFunc("POST /api/v1/polls/{pollId}/vote/{optionId}", middleware.WithLogging(authn.RequireAuth(votingHandler.Vote)))
	mux.HandleFunc("GET /api/v1/polls/{pollId}/results", middleware.WithLogging(authn.RequireAuth(resultsHandler.GetResults)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("veo API v1"))
	})

	return &Router{ServeMux: mux, limiter: limiter}, nil
}

// newLimiter shares the login budget through Redis when one is configured.
func newLimiter(cfg cliparse.Config) ratelimit.Limiter {
	perMinute := cfg.AuthRateLimit
	if perMinute <= 0 {
		perMinute = cliparse.DefaultAuthRateLimit
	}

	if cfg.RedisAddr != "" {
		slog.Info("rate limiting through redis", "addr", cfg.RedisAddr)
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return ratelimit.NewRedis(client, perMinute, perMinute)
	}
	return ratelimit.NewMemory(perMinute, perMinute)
}
