package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jask/splatcam/internal/config"
)

// logSink owns the log file opened for one command run.
type logSink struct {
	f io.Closer
}

// Close is safe to call more than once and on a sink that never opened.
func (s *logSink) Close() error {
	if s == nil || s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// configure points the default logger at the configured log file. The
// wizard owns the terminal, so nothing is logged to stderr. --log-level wins
// over log.level; with neither set the level is info.
func (s *logSink) configure(flagLevel string, lc config.LogConfig) error {
	level := slog.LevelInfo
	for _, src := range []struct{ name, raw string }{{"--log-level", flagLevel}, {"log.level", lc.Level}} {
		raw := strings.TrimSpace(src.raw)
		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "warning") {
			raw = "warn"
		}
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return fmt.Errorf("invalid %s %q", src.name, src.raw)
		}
		break
	}

	if strings.TrimSpace(lc.File) == "" {
		slog.SetDefault(newLogger(io.Discard, level))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(lc.File), 0o755); err != nil {
		return fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	_ = s.Close()
	s.f = f
	slog.SetDefault(newLogger(f, level))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
