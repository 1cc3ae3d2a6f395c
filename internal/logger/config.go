package logger

import (
	"os"
	"strconv"
	"strings"
)

// LogConfig holds the logging setup. Every field can be overridden from the
// environment, see DefaultConfig.
type LogConfig struct {
	// trace, debug, info, warn, error, fatal
	Level string
	// json, text
	Format string
	// file, stdout, both
	Output string

	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool

	LogPath   string
	AppFile   string
	AuditFile string
	ErrorFile string

	// Comma separated allow lists, empty or "*" lets everything through.
	FilterModules string
	FilterLevels  string

	// Size of the async hook queue.
	BufferSize int
}

// DefaultConfig returns the environment dependent defaults with LOG_*
// overrides applied.
func DefaultConfig() *LogConfig {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	cfg := &LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "both",
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   true,
		LogPath:    "./logs",
		AppFile:    "app.log",
		AuditFile:  "audit.log",
		ErrorFile:  "error.log",
		BufferSize: 1000,
	}

	if env == "development" {
		cfg.Level = "debug"
		cfg.Format = "text"
	}
	if env == "test" {
		cfg.Output = "stdout"
		cfg.Level = "warn"
	}

	overrideString(&cfg.Level, "LOG_LEVEL", true)
	overrideString(&cfg.Format, "LOG_FORMAT", true)
	overrideString(&cfg.Output, "LOG_OUTPUT", true)
	overrideString(&cfg.LogPath, "LOG_PATH", false)
	overrideString(&cfg.AppFile, "LOG_APP_FILE", false)
	overrideString(&cfg.AuditFile, "LOG_AUDIT_FILE", false)
	overrideString(&cfg.ErrorFile, "LOG_ERROR_FILE", false)
	overrideString(&cfg.FilterModules, "LOG_FILTER_MODULES", true)
	overrideString(&cfg.FilterLevels, "LOG_FILTER_LEVELS", true)

	overrideInt(&cfg.MaxSize, "LOG_MAX_SIZE", 1)
	overrideInt(&cfg.MaxBackups, "LOG_MAX_BACKUPS", 0)
	overrideInt(&cfg.MaxAge, "LOG_MAX_AGE", 1)
	overrideInt(&cfg.BufferSize, "LOG_BUFFER_SIZE", 1)

	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Compress = b
		}
	}

	return cfg
}

func overrideString(dst *string, key string, lower bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if lower {
		v = strings.ToLower(v)
	}
	*dst = v
}

func overrideInt(dst *int, key string, min int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return
	}
	*dst = n
}
