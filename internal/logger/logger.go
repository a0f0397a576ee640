package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logger.go builds prefixed zerolog loggers backed by console and a rotating file.

var (
	logPath   string
	logLevel  = "info"
	console   io.Writer = os.Stdout
	loggerMap           = make(map[string]zerolog.Logger)
	mu        sync.RWMutex
)

// SetLogPath sets the directory that holds the logs/ folder
func SetLogPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = path
	loggerMap = make(map[string]zerolog.Logger)
}

// SetLogLevel sets the global log level
func SetLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	logLevel = strings.ToLower(strings.TrimSpace(level))
	loggerMap = make(map[string]zerolog.Logger)
}

// SetConsole redirects console output, mainly so tests can capture it.
func SetConsole(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
	loggerMap = make(map[string]zerolog.Logger)
}

// GetLogPath returns the full path to the log file
func GetLogPath() string {
	mu.RLock()
	dir := logPath
	mu.RUnlock()
	return logFile(dir)
}

func logFile(dir string) string {
	if dir == "" {
		dir = "."
	}
	logsDir := filepath.Join(dir, "logs")

	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logs directory: %v\n", err)
			return filepath.Join(os.TempDir(), "termbar.log")
		}
	}

	return filepath.Join(logsDir, "termbar.log")
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger tagged with the given component prefix.
// Loggers are cached per prefix until the path, level or console changes.
func New(prefix string) zerolog.Logger {
	mu.RLock()
	if existing, ok := loggerMap[prefix]; ok {
		mu.RUnlock()
		return existing
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if existing, ok := loggerMap[prefix]; ok {
		return existing
	}

	rotatingLogFile := &lumberjack.Logger{
		Filename: logFile(logPath),
		MaxSize:  10,
		MaxAge:   15,
		Compress: true,
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: "15:04:05",
		FormatLevel: func(i interface{}) string {
			level := strings.ToUpper(fmt.Sprintf("%s", i))
			switch level {
			case "TRACE":
				return "[TRC]"
			case "DEBUG":
				return "[DBG]"
			case "INFO":
				return "[INF]"
			case "WARN":
				return "[WRN]"
			case "ERROR":
				return "[ERR]"
			case "FATAL":
				return "[FTL]"
			default:
				if len(level) > 3 {
					level = level[:3]
				}
				return fmt.Sprintf("[%s]", level)
			}
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%v", i)
		},
	}

	fileWriter := zerolog.ConsoleWriter{
		Out:        rotatingLogFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%v", i)
		},
	}

	l := zerolog.New(zerolog.MultiLevelWriter(consoleWriter, fileWriter)).
		With().
		Timestamp().
		Str("component", prefix).
		Logger().
		Level(ParseLevel(logLevel))

	loggerMap[prefix] = l
	return l
}

// Default returns the application logger
func Default() zerolog.Logger {
	return New("termbar")
}
