// Package log wraps logrus behind the small logging surface the rest
// of the application uses: leveled package-level functions, structured
// fields, and an optional JSON mode.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	apperrors "postdeck/internal/errors"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured logging key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger at construction time.
type Option func(*logrus.Logger)

// WithOutput directs log output to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithJSON switches the logger to JSON-formatted output.
func WithJSON() Option {
	return func(l *logrus.Logger) {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
}

// Logger is a leveled, structured logger.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger constructs a Logger with the given options applied.
func NewLogger(opts ...Option) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if isDebug {
		l.SetLevel(logrus.DebugLevel)
	}
	for _, opt := range opts {
		opt(l)
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug-level logging globally, including on the
// package-level logger.
func SetDebug(debug bool) {
	isDebug = debug
	level := logrus.InfoLevel
	if debug {
		level = logrus.DebugLevel
	}
	logger.entry.Logger.SetLevel(level)
}

// With returns a logger that includes the given fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	entry := l.entry
	for _, f := range fields {
		entry = entry.WithField(f.Key, f.Value)
	}
	return &Logger{entry: entry}
}

// Debug logs a message at debug level
func (l *Logger) Debug(msg string) { l.entry.Debug(msg) }

// Debugf logs a formatted message at debug level
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

// Info logs a message at info level
func (l *Logger) Info(msg string) { l.entry.Info(msg) }

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }

// Warn logs a message at warning level
func (l *Logger) Warn(msg string) { l.entry.Warn(msg) }

// Warnf logs a formatted message at warning level
func (l *Logger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }

// Error logs a message at error level
func (l *Logger) Error(msg string) { l.entry.Error(msg) }

// Errorf logs a formatted message at error level
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Package-level logging helpers that delegate to the configured logger.

// Debug logs a message at debug level
func Debug(msg string) { logger.Debug(msg) }

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }

// Info logs a message at info level
func Info(msg string) { logger.Info(msg) }

// Infof logs a formatted message at info level
func Infof(format string, args ...interface{}) { logger.Infof(format, args...) }

// Warn logs a message at warning level
func Warn(msg string) { logger.Warn(msg) }

// Warnf logs a formatted message at warning level
func Warnf(format string, args ...interface{}) { logger.Warnf(format, args...) }

// Error logs a message at error level
func Error(msg string) { logger.Error(msg) }

// Errorf logs a formatted message at error level
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }

// LogWithFields returns the package-level logger with the given fields
// attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package-level logger with the error message
// attached, plus the error kind when the error participates in the
// application error taxonomy.
func LogWithError(err error) *Logger {
	if err == nil {
		return logger
	}
	fields := []Field{F("error", err.Error())}
	var kinded interface{ Kind() apperrors.ErrorKind }
	if apperrors.As(err, &kinded) {
		fields = append(fields, F("error_kind", int(kinded.Kind())))
	}
	return logger.With(fields...)
}
