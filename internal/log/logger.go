// Package log provides structured logging for the orchestrator using zap.
// Grounded on the teacher's internal/log/logger.go (zap.Config selection,
// Logger wrapper, Trace event pattern); the Android-stub-specific helpers
// (StubInstall, DetectorActivate, DetectorRegister, ...) are dropped since
// stub/detector registration isn't part of this spec. Kept: the
// dev-vs-production zap.Config split, the hex/field helpers used all over
// hook and syscall logging, and Trace as the structured event-logging
// entry point the Hook Bridge and OS personalities call into.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with emulator-specific helpers.
type Logger struct {
	*zap.Logger
}

var (
	// L is the global root logger instance, set by Init.
	L    *Logger
	once sync.Once
)

// Init initializes the global root logger. Safe to call multiple times;
// only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger writing to stderr.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	// Shorter timestamps in development
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fallback to no-op if config fails
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger, used when output is off or in tests.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// NewFile creates a Logger writing to a file sink, for the per-thread log
// files spec.md §4.5's log_dir/log_split describe (one file per guest
// thread, or a single split root-sink file). Returns the open *os.File so
// the caller can Sync/Close it on shutdown.
func NewFile(path string, debug bool) (*Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(f), level)
	return &Logger{Logger: zap.New(core, zap.AddCallerSkip(1))}, f, nil
}

// Trace logs a structured hook/syscall event: category ("hook", "posix",
// "patch", "mmap", "debugger", ...), name (the symbol/syscall/hook name),
// and a free-form detail string, at the guest PC it fired from. This is
// the primary method the Hook Bridge and OS personalities use to report
// activity, replacing the teacher's onTrace-callback variant (trace
// *collection* for the CLI/dashboard now lives in internal/trace instead
// of being threaded through the logger).
func (l *Logger) Trace(pc uint64, category, name, detail string) {
	l.Debug("trace",
		zap.String("cat", category),
		zap.String("fn", name),
		zap.String("detail", detail),
		zap.Uint64("pc", pc),
	)
}

// TraceSimple logs a trace event without a PC (uses 0).
func (l *Logger) TraceSimple(category, name, detail string) {
	l.Trace(0, category, name, detail)
}

// WithCategory returns a logger with the category field preset.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("cat", category))}
}

// Hex formats a uint64 as a 0x-prefixed hex string for logging.
func Hex(addr uint64) string {
	return "0x" + hexString(addr)
}

func hexString(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 16)
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}

// Field helpers for common patterns.

// Addr creates an address field.
func Addr(addr uint64) zap.Field {
	return zap.String("addr", Hex(addr))
}

// Size creates a size field.
func Size(size uint64) zap.Field {
	return zap.Uint64("size", size)
}

// Ptr creates a pointer field.
func Ptr(name string, ptr uint64) zap.Field {
	return zap.String(name, Hex(ptr))
}

// Fn creates a function name field.
func Fn(name string) zap.Field {
	return zap.String("fn", name)
}
