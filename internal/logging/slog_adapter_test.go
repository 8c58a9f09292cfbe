// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
	}{
		{"info", slog.LevelInfo, `"level":"info"`},
		{"warn", slog.LevelWarn, `"level":"warn"`},
		{"error", slog.LevelError, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel)))
			logger.Log(context.Background(), tt.level, "supervisor event", "service", "request-queue-catalog")

			output := buf.String()
			if !strings.Contains(output, tt.wantLevel) {
				t.Errorf("expected %s, got: %s", tt.wantLevel, output)
			}
			if !strings.Contains(output, `"service":"request-queue-catalog"`) {
				t.Errorf("expected service attribute, got: %s", output)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn logger")
	}
}

func TestSlogHandler_AttrKinds(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	logger.Info("kinds",
		slog.Int64("int", 3),
		slog.Uint64("uint", 4),
		slog.Float64("float", 1.5),
		slog.Bool("bool", true),
		slog.Duration("dur", time.Second),
		slog.Any("err", errors.New("failed")),
		slog.Group("restart", slog.Int("count", 2)),
	)

	output := buf.String()
	for _, want := range []string{`"int":3`, `"uint":4`, `"float":1.5`, `"bool":true`, `"err":"failed"`, `"restart.count":2`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewSlogHandlerWithLogger(zerolog.New(&buf))
	logger := slog.New(base.WithAttrs([]slog.Attr{slog.String("tree", "kizuna")}).WithGroup("svc"))
	logger.Info("grouped", "name", "http-server")

	output := buf.String()
	if !strings.Contains(output, `"svc.tree":"kizuna"`) {
		t.Errorf("expected grouped preset attribute, got: %s", output)
	}
	if !strings.Contains(output, `"svc.name":"http-server"`) {
		t.Errorf("expected grouped record attribute, got: %s", output)
	}

	if base.WithGroup("") != base {
		t.Error("empty group should return the same handler")
	}
}

func TestNewSlogLogger(t *testing.T) {
	if NewSlogLogger() == nil {
		t.Fatal("NewSlogLogger() returned nil")
	}
}
