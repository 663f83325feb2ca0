// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logging configures the process-wide slog logger.

	closer, err := logging.Configure(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	defer closer.Close()

Everything else logs through the slog package functions with key/value
pairs, e.g. slog.Info("poll created", "poll_id", id).
*/
package logging
