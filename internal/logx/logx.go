// Package logx sets up the process logger from command line verbosity.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// UserLevel is the level used when no verbosity flag is given.
var UserLevel = slog.LevelInfo

// LevelFromFlags maps -vv, -v and -q style flags to a level. The most verbose
// flag wins.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return UserLevel
	}
}

// ParseLevel accepts debug, info, warn or error in any case. An empty string
// yields UserLevel.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return UserLevel, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return UserLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
