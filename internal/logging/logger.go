package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the structured logger passed through the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	// Error logs msg at error level. err may be nil.
	Error(msg string, err error, fields ...Field)
	// With returns a logger that adds fields to every entry.
	With(fields ...Field) Logger
}

// Field is one key/value pair of a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field                 { return Field{key, value} }
func Int(key string, value int) Field                { return Field{key, value} }
func Uint64(key string, value uint64) Field          { return Field{key, value} }
func Float64(key string, value float64) Field        { return Field{key, value} }
func Duration(key string, value time.Duration) Field { return Field{key, value} }

// Err stores err under the "error" key.
func Err(err error) Field { return Field{"error", err} }

type zeroLogger struct {
	zl zerolog.Logger
}

// FromZerolog wraps an existing zerolog logger.
func FromZerolog(zl zerolog.Logger) Logger { return zeroLogger{zl: zl} }

// NewConsole returns a human-readable logger on w that drops entries below
// level and tags the rest with component. The CLI logs to stderr with it.
func NewConsole(w io.Writer, component string, level zerolog.Level, noColor bool) Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: "15:04:05"}
	return FromZerolog(zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger())
}

// Nop returns a logger that writes nothing.
func Nop() Logger { return FromZerolog(zerolog.Nop()) }

func (l zeroLogger) Debug(msg string, fields ...Field) { emit(l.zl.Debug(), fields).Msg(msg) }

func (l zeroLogger) Info(msg string, fields ...Field) { emit(l.zl.Info(), fields).Msg(msg) }

func (l zeroLogger) Error(msg string, err error, fields ...Field) {
	ev := l.zl.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	emit(ev, fields).Msg(msg)
}

func (l zeroLogger) With(fields ...Field) Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ctx = ctx.Str(f.Key, v)
		case int:
			ctx = ctx.Int(f.Key, v)
		case uint64:
			ctx = ctx.Uint64(f.Key, v)
		case time.Duration:
			ctx = ctx.Dur(f.Key, v)
		default:
			ctx = ctx.Interface(f.Key, v)
		}
	}
	return zeroLogger{zl: ctx.Logger()}
}

// emit attaches fields to ev with zerolog's typed encoders where one
// exists. A disabled event ignores them at no cost.
func emit(ev *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ev = ev.Str(f.Key, v)
		case int:
			ev = ev.Int(f.Key, v)
		case uint64:
			ev = ev.Uint64(f.Key, v)
		case float64:
			ev = ev.Float64(f.Key, v)
		case bool:
			ev = ev.Bool(f.Key, v)
		case time.Duration:
			ev = ev.Dur(f.Key, v)
		case error:
			ev = ev.AnErr(f.Key, v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	return ev
}
