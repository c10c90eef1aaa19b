package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process logger. It discards everything until InitLogger runs,
// which keeps tests and one-shot commands quiet.
var Log = zerolog.Nop()

var logFile *os.File

// InitLogger points Log at a file. The terminal player owns stdout, so logs
// never go to the console.
func InitLogger(path, level string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logFile = f

	zerolog.TimeFieldFormat = time.RFC3339Nano
	Log = zerolog.New(f).Level(parseLevel(level)).With().Timestamp().Logger()
	Log.Info().Msg("=== Noise Loop Started ===")
	return nil
}

// CloseLogger flushes and closes the log file.
func CloseLogger() {
	if logFile == nil {
		return
	}
	Log.Info().Msg("=== Noise Loop Stopped ===")
	logFile.Close()
	logFile = nil
	Log = zerolog.Nop()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
