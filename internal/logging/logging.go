// Package logging configures the global zerolog logger with a console sink
// on stderr and a rotating file sink.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "impact-mcp.log"

// Init wires the global logger. The file sink lands in LOGS_FOLDER (falling
// back to a logs directory beside the executable) and rotates per the
// LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS and LOG_MAX_AGE_DAYS knobs.
func Init(verbose bool) {
	// Init runs before config.Load, so the executable-adjacent .env has to
	// be pulled in here for LOGS_FOLDER and the rotation knobs.
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		logDir = filepath.Join(exeDir, "logs")
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create log directory %q: %v\n", logDir, err)
		os.Exit(1)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    envInt("LOG_MAX_SIZE_MB", 16),
		MaxBackups: envInt("LOG_MAX_BACKUPS", 8),
		MaxAge:     envInt("LOG_MAX_AGE_DAYS", 90),
		Compress:   true,
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, fileWriter)).
		With().
		Timestamp().
		Logger()
}

// envInt reads a positive integer knob, ignoring unset or malformed values.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
