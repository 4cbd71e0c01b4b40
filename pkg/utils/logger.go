package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var logFile *os.File

// Log writes a formatted debug message through the default logger.
func Log(text string, args ...interface{}) {
	slog.Debug(fmt.Sprintf(text, args...))
}

// ParseLevel maps debug, info, warn and error to a slog level. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger installs the default slog logger. In verbose mode everything
// down to debug goes to a dated file in the temp dir so it does not draw over
// the TUI. Otherwise records at level and above go to stderr. It returns the
// log file path, empty when logging to stderr.
func InitLogger(verbose bool, level string) string {
	if !verbose {
		setHandler(os.Stderr, ParseLevel(level), true)
		return ""
	}

	name := filepath.Join(os.TempDir(), fmt.Sprintf("toproad_%s.log", time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		setHandler(os.Stderr, ParseLevel(level), true)
		slog.Error("Failed to create log file", "path", name, "error", err)
		return ""
	}
	logFile = f
	setHandler(f, slog.LevelDebug, false)
	slog.Debug("Verbose logging enabled", "path", name)
	return name
}

func setHandler(w io.Writer, level slog.Level, color bool) {
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !color,
	})))
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
