package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Constants for log levels that match slog.Level values.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Type aliases for commonly used slog types.
type (
	Logger  = *slog.Logger
	Handler = slog.Handler
	Level   = slog.Level
)

//nolint:gochecknoglobals
var logLevelStrToLevel = map[string]Level{
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
}

// LoggerConfig holds configuration parameters for logging.
type LoggerConfig struct {
	// AppName is the application identifier added to all log entries
	AppName string

	// Output specifies where logs are written ("stdout", "stderr", "discard" or a file path)
	Output string `env:"OUTPUT" default:"stderr"`

	// Level sets the minimum log level ("debug", "info", "warn", "error")
	Level string `env:"LEVEL" default:"info"`

	// Filter overrides the level per logger name prefix ("repo:warn,svc.weathersvc:debug")
	Filter string `env:"FILTER" default:""`

	// JSON enables JSON-formatted output instead of human-readable console output
	JSON bool `env:"JSON" default:"false"`

	OutputHandle io.Writer
}

//nolint:gochecknoglobals
var (
	Group      = slog.Group
	GroupValue = slog.GroupValue

	config     LoggerConfig
	pkgLevels  map[string]Level
	color      bool
	writeLock  sync.Mutex
	configLock sync.Mutex
)

// Configure sets up global logging configuration for the application.
// It must be called before any loggers are created; loggers obtained earlier keep discarding.
func Configure(ctx context.Context, cfg LoggerConfig, appName string) {
	configure(cfg, appName)

	GetLogger("infra.logging").With(Group("config",
		"appName", config.AppName,
		"output", config.Output,
		"level", config.Level,
		"filter", config.Filter,
		"json", config.JSON,
	)).DebugContext(ctx, "logging configured")
}

func configure(cfg LoggerConfig, appName string) {
	configLock.Lock()
	defer configLock.Unlock()

	config = cfg
	config.AppName = appName
	pkgLevels = parsePkgLevels(cfg.Filter)
	color = false

	if cfg.OutputHandle == nil {
		switch cfg.Output {
		case "", "discard":
			config.OutputHandle = io.Discard
		case "stdout":
			config.OutputHandle = os.Stdout
			color = term.IsTerminal(int(os.Stdout.Fd()))
		case "stderr":
			config.OutputHandle = os.Stderr
			color = term.IsTerminal(int(os.Stderr.Fd()))
		default:
			file, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				panic(fmt.Errorf("failed to open log file: %w", err))
			}

			config.OutputHandle = file
		}
	}

	slog.SetLogLoggerLevel(parseLogLevel(config.Level, LevelInfo))
}

// GetLogLogger creates a standard library *log.Logger that writes through a slog.Logger.
// Useful for adapting third-party code that expects a *log.Logger.
func GetLogLogger(logger Logger, level Level) *log.Logger {
	handler := logger.With("stdlog", true).Handler()

	return slog.NewLogLogger(handler, level)
}

// GetLogger creates a new logger with the given name using the global configuration.
// The name is included in log entries to identify the source module and selects
// the most specific Filter override as the logger's level.
func GetLogger(name string) Logger {
	configLock.Lock()
	cfg, levels, colored := config, pkgLevels, color
	configLock.Unlock()

	output := cfg.OutputHandle
	if output == nil || output == io.Discard {
		return NewNopLogger()
	}

	level := levelFor(name, parseLogLevel(cfg.Level, LevelInfo), levels)

	var handler slog.Handler

	if cfg.JSON {
		//nolint:exhaustruct
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		})
	} else {
		handler = NewConsoleHandler(output, level, colored, &writeLock)
	}

	logger := slog.New(NewTracingHandler(handler))

	if cfg.AppName != "" {
		logger = logger.With("app", cfg.AppName)
	}

	return logger.With("logger", name)
}

// levelFor walks name from its longest dotted prefix to the root ("") and
// returns the first override found, or fallback.
func levelFor(name string, fallback Level, levels map[string]Level) Level {
	for prefix := name; ; {
		if level, ok := levels[prefix]; ok {
			return level
		}

		if prefix == "" {
			return fallback
		}

		if i := strings.LastIndexByte(prefix, '.'); i >= 0 {
			prefix = prefix[:i]
		} else {
			prefix = ""
		}
	}
}

func parsePkgLevels(filter string) map[string]Level {
	levels := make(map[string]Level)

	for _, pkgLevel := range strings.Split(filter, ",") {
		pkg, level, ok := strings.Cut(strings.TrimSpace(pkgLevel), ":")
		if !ok {
			continue
		}

		levels[pkg] = parseLogLevel(level, LevelDebug)
	}

	return levels
}

func parseLogLevel(levelStr string, fallback Level) Level {
	levelStr = strings.TrimSpace(levelStr)
	levelStr = strings.ToLower(levelStr)

	level, ok := logLevelStrToLevel[levelStr]
	if !ok {
		return fallback
	}

	return level
}
