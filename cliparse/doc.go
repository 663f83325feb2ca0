// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

Every flag falls back to an environment variable. A .env file in the
working directory is loaded by main before parsing.

	-p           PORT             server port (default 3318)
	-d           DATABASE_URL     database URL or SQLite file (required)
	-t           DATABASE_TYPE    sqlite (default) or postgres
	-jwt-secret  JWT_SECRET       token signing secret (required)
	-token-ttl   TOKEN_TTL        token lifetime (default 24h)
	-tz          POLL_TIMEZONE    reference zone for poll endings (default UTC)
	-log-level   LOG_LEVEL        debug, info, warn, error (default info)
	-log-format  LOG_FORMAT       text or json (default text)
	-log-file    LOG_FILE         rotating log file, in addition to stderr
	-redis       REDIS_ADDR       Redis for shared rate limiting
	-auth-rate   AUTH_RATE_LIMIT  login/register attempts per minute per IP (default 10)
	-cors-origin CORS_ORIGIN      origins allowed to send credentials, comma separated
	-trust-proxy TRUST_PROXY      key rate limits on X-Forwarded-For (default false)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL or JWT_SECRET is missing, or if
a numeric, duration or time zone value does not parse.
*/
package cliparse
