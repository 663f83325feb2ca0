// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the veo API server.

veo runs small time-boxed polls: an owner creates a poll with two to five
options and an ending, signed-in users vote once, and anyone can read the
live or final tally.

# Starting the Server

Configuration comes from flags, the environment, or a .env file:

	DATABASE_URL=veo.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HMAC key for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_TTL (-token-ttl): token lifetime (default: 24h)
  - POLL_TIMEZONE (-tz): zone of wall-clock endings (default: UTC)
  - REDIS_ADDR (-redis): share login rate limits across instances
  - AUTH_RATE_LIMIT (-auth-rate): login/register attempts per minute per IP
  - CORS_ORIGIN (-cors-origin): browser origins allowed to send credentials
  - TRUST_PROXY (-trust-proxy): key rate limits on X-Forwarded-For
  - LOG_LEVEL, LOG_FORMAT, LOG_FILE: slog level, text or json, rotated file

# Architecture

  - handlers: HTTP request handlers (polls, voting, results, auth)
  - router: Route definitions using Go 1.22+ routing
  - middleware: auth, rate limiting, CORS, logging, JSON helpers
  - voting: the vote decision inside the per-poll critical section
  - tally: vote counts and percentages
  - store: durable polls, votes and users behind one transaction boundary
  - models: domain, wire and error types
  - auth: JWT sessions and password hashing
  - db: connection and schema for SQLite and PostgreSQL
  - ratelimit: in-memory and Redis token buckets
  - logging: slog setup with file rotation
  - cliparse: configuration parsing
*/
package main
