// Package telemetry provides the allocator's diagnostic logging surface.
//
// The shape — a Logger with leveled methods and component tagging — follows
// kernel/utils/logger.go in the originating codebase; the backend is
// go.uber.org/zap rather than that file's hand-rolled formatter, since zap
// was already one dependency away (pulled in indirectly there) and gives
// the same structured-field logging without reimplementing a formatter.
package telemetry

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the five severities the allocator ever logs at. Fatal exits
// the process, matching the originating Logger's Fatal.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
	Fatal
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	case Fatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config configures a Logger instance. The zero value is not directly
// usable; use Default or New with an explicit Level.
type Config struct {
	Level     Level
	Component string
	Colorize  bool
}

// Logger wraps a zap.Logger with the allocator's component-tagging
// convention. Component is attached once at construction, as the
// originating logger attaches it per instance rather than per call site.
type Logger struct {
	z         *zap.Logger
	component string
}

// New builds a Logger from an explicit Config.
func New(cfg Config) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "ts"

	var encoder zapcore.Encoder
	if cfg.Colorize {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), cfg.Level.zapLevel())
	z := zap.New(core)
	if cfg.Component != "" {
		z = z.With(zap.String("component", cfg.Component))
	}
	return &Logger{z: z, component: cfg.Component}
}

// Default returns a Logger at Info level tagged with component, colorized
// the way the originating DefaultLogger was.
func Default(component string) *Logger {
	return New(Config{Level: Info, Component: component, Colorize: true})
}

// Nop returns a Logger that discards everything, for tests that want to
// exercise a code path's logging calls without producing output.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// With returns a Logger with additional structured fields attached to every
// subsequent call.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.z.With(fields...), component: l.component}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }

// Sync flushes any buffered log entries. Callers should defer it at process
// shutdown; errors from syncing stdout are expected on some platforms and
// are intentionally discarded.
func (l *Logger) Sync() {
	_ = l.z.Sync()
}
