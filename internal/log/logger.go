// Package log sets up the structured logger and the per-user locations the
// CLI writes logs and runs to.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const appName = "swingsim"

type LoggerConfiguration struct {
	LogLevel slog.Level
	Writer   io.Writer
}

// NewLogger returns a JSON logger writing to config.Writer, stdout when nil.
func NewLogger(config *LoggerConfiguration) *slog.Logger {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	return slog.New(slog.NewJSONHandler(config.Writer, &slog.HandlerOptions{
		Level:     config.LogLevel,
		AddSource: true,
	}))
}

// SetDefault sets the default logger
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// Component returns the default logger scoped to a component.
func Component(name string) *slog.Logger {
	return slog.With("component", name)
}

// ParseLevel accepts debug, info, warn and error in any case. Anything else
// is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogPath returns customPath when it can be written to, and the XDG state
// file otherwise.
func LogPath(customPath string) (string, error) {
	if customPath != "" {
		if strings.HasPrefix(customPath, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				customPath = filepath.Join(home, customPath[2:])
			}
		}

		if err := os.MkdirAll(filepath.Dir(customPath), 0755); err == nil {
			f, err := os.OpenFile(customPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			if err == nil {
				_ = f.Close()
				return customPath, nil
			}
		}

		fmt.Fprintf(os.Stderr, "Warning: could not use log path %s, falling back to XDG default\n", customPath)
	}

	logPath, err := xdg.StateFile(appName + "/" + appName + ".log")
	if err != nil {
		return "", fmt.Errorf("could not get log path: %w", err)
	}
	return logPath, nil
}

// DataDir is where runs are stored by default.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// Open creates the logger for path at level and makes it the default. The
// returned file must be closed by the caller.
func Open(path string, level slog.Level) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	SetDefault(NewLogger(&LoggerConfiguration{LogLevel: level, Writer: f}))
	return f, nil
}
