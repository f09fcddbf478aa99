// Package logging provides structured logging for the companion backend.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log written under the log directory.
const LogFileName = "sc-companion.log"

// Logger wraps zerolog with a console sink and an optional rotating file sink.
type Logger struct {
	zlog      zerolog.Logger
	component string
}

var (
	fileSink   *lumberjack.Logger
	fileSinkMu sync.Mutex
)

// NewLogger creates a logger tagged with the given component name.
// Console output goes to stderr. Records are also written to the rotating file
// while file logging is enabled, including for loggers created before
// EnableFileLogging was called.
func NewLogger(component string) *Logger {
	return newLogger(component, zerolog.MultiLevelWriter(consoleWriter(os.Stderr), fileSinkWriter{}))
}

// NewLoggerWithOutput creates a logger writing to w only. Used by tests.
func NewLoggerWithOutput(component string, w io.Writer) *Logger {
	return newLogger(component, w)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func newLogger(component string, output io.Writer) *Logger {
	ctx := zerolog.New(output).With().Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}

	return &Logger{
		zlog:      ctx.Logger(),
		component: component,
	}
}

// fileSinkWriter forwards to the current rotating file, if any.
type fileSinkWriter struct{}

func (fileSinkWriter) Write(p []byte) (int, error) {
	fileSinkMu.Lock()
	defer fileSinkMu.Unlock()

	if fileSink == nil {
		return len(p), nil
	}
	return fileSink.Write(p)
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// With creates a child logger context with additional fields.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// Component returns the component name this logger was created with.
func (l *Logger) Component() string {
	return l.component
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Debugf logs a debug message with printf-style formatting.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// EnableFileLogging turns on the rotating file sink in dir. Returns the log
// file path.
func EnableFileLogging(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}

	fileSinkMu.Lock()
	defer fileSinkMu.Unlock()

	path := filepath.Join(dir, LogFileName)
	if fileSink != nil {
		return fileSink.Filename, nil
	}
	fileSink = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB per file
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	return path, nil
}

// CloseFileLogging flushes and closes the rotating file sink (call on shutdown).
func CloseFileLogging() {
	fileSinkMu.Lock()
	defer fileSinkMu.Unlock()

	if fileSink != nil {
		fileSink.Close()
		fileSink = nil
	}
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// SetDebug switches the global level between debug and info.
func SetDebug(enabled bool) {
	if enabled {
		SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	SetGlobalLevel(zerolog.InfoLevel)
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
}
