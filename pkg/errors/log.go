package errors

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogHandler is an ErrorHandler that logs errors through zap.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the entries. When nil, a console logger writing to
	// stderr is created on first use.
	Logger *zap.Logger

	once sync.Once
}

// NewConsoleLogger returns a zap logger with a human-readable console
// encoder writing to stderr at the given level.
func NewConsoleLogger(level zapcore.Level) *zap.Logger {
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

func (h *LogHandler) logger() *zap.Logger {
	h.once.Do(func() {
		if h.Logger == nil {
			h.Logger = NewConsoleLogger(zapcore.InfoLevel)
		}
	})
	return h.Logger
}

// HandleError logs an Error.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("behaviors error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("behaviors panic", fields...)
}

// HandleViolation logs a ContractViolation. The stack trace is always
// included since a violation means a programming error.
func (h *LogHandler) HandleViolation(err *ContractViolation) {
	if err == nil {
		return
	}
	h.logger().Error("contract violation",
		zap.String("op", err.Op),
		zap.String("message", err.Message),
		zap.String("stack", err.StackTrace),
	)
}
