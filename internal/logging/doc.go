// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package logging provides the process-wide zerolog logger.

Every package logs through this one: there is no standard library log usage
and no per-package logger construction.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Str("addr", addr).Msg("HTTP server listening")
	logging.Error().Err(err).Msg("Catalog search failed")

	// Request-scoped fields (request_id, correlation_id) come from ctx:
	logging.Ctx(ctx).Warn().Int("mal_id", id).Msg("Detail fetch failed")

# Configuration

Level, format and caller reporting come from the logging section of the
service configuration (LOG_LEVEL, LOG_FORMAT, LOG_CALLER).

# Supervisor Integration

suture reports through log/slog. NewSlogLogger returns a *slog.Logger that
writes to the zerolog logger so supervisor events share the same output:

	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}

# Conventions

Terminate every chain with .Msg or .Send, and prefer typed fields to Msgf:

	logging.Info().Int("count", n).Msg("Recommendations assembled")
*/
package logging
