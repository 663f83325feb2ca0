// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort          = 3318
	DefaultTokenTTL      = 24 * time.Hour
	DefaultAuthRateLimit = 10 // login/register attempts per minute per IP
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	JWTSecret     string
	TokenTTL      time.Duration
	Timezone      string
	Location      *time.Location // resolved Timezone; poll endings are wall clock in this zone
	LogLevel      string
	LogFormat     string
	LogFile       string
	RedisAddr     string
	AuthRateLimit int
	CORSOrigin    string
	TrustProxy    bool // read client addresses from X-Forwarded-For / X-Real-IP
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("veo", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisAddr, "redis", "", "Redis address for shared rate limiting")
	fs.StringVar(&cfg.CORSOrigin, "cors-origin", "", "Comma separated origins allowed to send credentials")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Trust X-Forwarded-For from a reverse proxy")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Bearer token lifetime")

	fs.StringVar(&cfg.Timezone, "tz", "", "Reference time zone for poll endings")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Also write logs to this rotating file")

	fs.IntVar(&cfg.AuthRateLimit, "auth-rate", 0, "Login/register attempts per minute per client")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.TokenTTL == 0 {
		if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil || d <= 0 {
				return Config{}, fmt.Errorf("invalid TOKEN_TTL env variable %q", ttl)
			}
			cfg.TokenTTL = d
		} else {
			cfg.TokenTTL = DefaultTokenTTL
		}
	}

	if cfg.Timezone == "" {
		cfg.Timezone = envOr("POLL_TIMEZONE", "UTC")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid POLL_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = envOr("LOG_FORMAT", "text")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("LOG_FILE")
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = os.Getenv("CORS_ORIGIN")
	}

	if !cfg.TrustProxy {
		if v := os.Getenv("TRUST_PROXY"); v != "" {
			trust, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid TRUST_PROXY env variable %q", v)
			}
			cfg.TrustProxy = trust
		}
	}

	if cfg.AuthRateLimit == 0 {
		if rateStr := os.Getenv("AUTH_RATE_LIMIT"); rateStr != "" {
			n, err := strconv.Atoi(rateStr)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid AUTH_RATE_LIMIT env variable")
			}
			cfg.AuthRateLimit = n
		} else {
			cfg.AuthRateLimit = DefaultAuthRateLimit
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
