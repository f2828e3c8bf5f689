// Package zaplog provides a builder-pattern constructor for creating a
// logr.Logger implementation using Zap with some commonly-good defaults.
//
// The loggers built here are what the tracing and httptrace packages log
// span lifecycle events to, see tracing.LoggingSpan.
package zaplog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/luxas/deklarative-httptrace/tracing/filetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	// EncoderConfig is a symbolic link to zapcore.EncoderConfig.
	EncoderConfig = zapcore.EncoderConfig
	// LevelEncoder is a symbolic link to zapcore.LevelEncoder.
	LevelEncoder = zapcore.LevelEncoder

	// EncoderConfigOption represents a function that applies an option to the EncoderConfig.
	EncoderConfigOption func(*EncoderConfig)
)

// LowercaseLevelEncoder is the default LevelEncoder; it extends the zapcore.LowercaseLevelEncoder
// by adding a "(v={V})" to all levels where {V} is the logr level.
func LowercaseLevelEncoder() LevelEncoder {
	return vLevelEncoder(zapcore.Level.String, "debug")
}

// CapitalLevelEncoder extends the zapcore.CapitalLevelEncoder
// by adding a "(v={V})" to all levels where {V} is the logr level.
func CapitalLevelEncoder() LevelEncoder {
	return vLevelEncoder(zapcore.Level.CapitalString, "DEBUG")
}

func vLevelEncoder(name func(zapcore.Level) string, debug string) LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		str := name(l)
		// zap has no names for levels below debug; logr V(2) and up end up there.
		if l < zap.DebugLevel {
			str = debug
		}
		if l <= zap.InfoLevel {
			str += "(v=" + strconv.Itoa(int(l*-1)) + ")"
		}
		enc.AppendString(str)
	}
}

// NewZap returns a new *Builder using the default configuration.
func NewZap() *Builder {
	return (&Builder{
		outW:       os.Stdout,
		encoderCfg: zap.NewProductionEncoderConfig(),
		newEncoder: zapcore.NewJSONEncoder,
	}).WithLevelEncoder(LowercaseLevelEncoder())
}

// Builder is a builder-pattern struct for building a logr.Logger
// using go.uber.org/zap.
//
// The default configuration uses the production encoder configuration,
// writes JSON, includes the V log levels in the level name, and logs to os.Stdout.
type Builder struct {
	outW              io.Writer
	encoderCfg        EncoderConfig
	encoderCfgOptions []EncoderConfigOption
	newEncoder        func(EncoderConfig) zapcore.Encoder
	level             zapcore.Level
	opts              []zap.Option
}

// LogTo specifies where to write logs. If you want to write to multiple
// destinations, use io.MultiWriter or preferably, zapcore.NewMultiWriteSyncer.
//
// The resulting WriteSyncer is automatically locked using zapcore.Lock, so
// it can be used in a thread-safe manner.
//
// Defaults to os.Stdout.
//
// A call to this function overwrites any previous value.
func (b *Builder) LogTo(w io.Writer) *Builder {
	b.outW = w
	return b
}

// WithEncoderConfig lets the user fine-tune how to encode/format logs.
//
// Defaults to zap.NewProductionEncoderConfig().
//
// A call to this function overwrites any previous value.
func (b *Builder) WithEncoderConfig(cfg EncoderConfig) *Builder {
	b.encoderCfg = cfg
	return b
}

// WithEncoderConfigOption registers a function that mutates the registered
// EncoderConfig from WithEncoderConfig at Build() time.
//
// A call to this function appends to the list of previous values.
func (b *Builder) WithEncoderConfigOption(opts ...EncoderConfigOption) *Builder {
	b.encoderCfgOptions = append(b.encoderCfgOptions, opts...)
	return b
}

// LogUpto specifies the logr level that shall be used. All log messages from
// a logr.Logger with a log level _less than or equal to_ logrLevel will be output.
//
// To convert between zap and logr log levels, multiply by -1 like follows:
//
//	Level	Zap	Logr
//		-N	N
//	Debug	-1	1
//	Info	0	0	(default)
//	Warn	1	N/A
//	Error	2	N/A
//
// Negative logrLevel values are ignored, as logr disallows them.
//
// A call to this function overwrites any previous value.
func (b *Builder) LogUpto(logrLevel int8) *Builder {
	if logrLevel >= 0 {
		b.level = zapcore.Level(-1 * logrLevel)
	}
	return b
}

// Level is like LogUpto, but parses a level name such as "info", "debug"
// or "v=3", as found in configuration files and environment variables.
// "error" only outputs errors.
func (b *Builder) Level(name string) (*Builder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "info":
		b.level = zap.InfoLevel
	case "debug":
		b.level = zap.DebugLevel
	case "warn", "error":
		b.level = zap.ErrorLevel
	default:
		v, err := strconv.ParseInt(strings.TrimPrefix(name, "v="), 10, 8)
		if err != nil || v < 0 {
			return b, fmt.Errorf("invalid log level %q", name)
		}
		b.LogUpto(int8(v))
	}
	return b, nil
}

// WithOptions appends options for configuring zap.
//
// Options by default applied in Build() are:
//
//	zap.AddStacktrace(zap.ErrorLevel)
//	zap.ErrorOutput(sink)
//
// It is possible to overwrite these default using this method.
//
// A call to this function appends to the list of previous values.
func (b *Builder) WithOptions(opts ...zap.Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Console makes the logger write tab-separated, human-readable lines
// instead of JSON, with capitalized level names and human-friendly times.
func (b *Builder) Console() *Builder {
	b.newEncoder = zapcore.NewConsoleEncoder
	return b.HumanFriendlyTime().
		WithLevelEncoder(CapitalLevelEncoder())
}

// Example is a shorthand for
//
//	HumanFriendlyTime().
//	NoTimestamps().
//	NoStacktraceOnError()
//
// which gives deterministic output for examples and tests.
func (b *Builder) Example() *Builder {
	return b.HumanFriendlyTime().
		NoTimestamps().
		NoStacktraceOnError()
}

// Test is a shorthand for verifying log output in a test with the help of the
// filetest package. Given a filetest.Tester, this will make the logger log to
// a file under testdata/ with the name of the test + the ".log" suffix.
//
// FilterStacktraceOrigins is applied before verifying the output such that
// in console mode the stack trace is filtered.
func (b *Builder) Test(g *filetest.Tester) *Builder {
	return b.LogTo(g.Add(g.T.Name() + ".log").Filter(FilterStacktraceOrigins).Writer())
}

// NoStacktraceOnError makes the logger not output a stack trace when
// an error is logged. This is done by moving the stack trace level
// to only be output for the DPanicLevel or higher (zap) levels.
func (b *Builder) NoStacktraceOnError() *Builder {
	return b.WithOptions(zap.AddStacktrace(zap.DPanicLevel))
}

// WithLevelEncoder customizes how the log level is encoded.
//
// The default is LowercaseLevelEncoder.
func (b *Builder) WithLevelEncoder(levelEnc LevelEncoder) *Builder {
	return b.WithEncoderConfigOption(func(ec *EncoderConfig) {
		ec.EncodeLevel = levelEnc
	})
}

// NoTimestamps omits timestamps in the logs.
//
// It corresponds to setting EncoderConfig.TimeKey = zapcore.OmitKey.
func (b *Builder) NoTimestamps() *Builder {
	return b.WithEncoderConfigOption(func(ec *EncoderConfig) {
		ec.TimeKey = zapcore.OmitKey
	})
}

// HumanFriendlyTime serializes a time.Time to an ISO8601-formatted string
// with millisecond precision, and a time.Duration using its String method.
func (b *Builder) HumanFriendlyTime() *Builder {
	return b.WithEncoderConfigOption(func(ec *EncoderConfig) {
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeDuration = zapcore.StringDurationEncoder
	})
}

// Build builds the logger with the configured options.
//
// By default the logger name is an empty string, and the log level is 0.
func (b *Builder) Build() logr.Logger {
	sink := zapcore.Lock(zapcore.AddSync(b.outW))

	encCfg := b.encoderCfg
	for _, mutFn := range b.encoderCfgOptions {
		mutFn(&encCfg)
	}

	// Prepend the defaults, such that the user can override them later.
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
		zap.ErrorOutput(sink),
	}
	opts = append(opts, b.opts...)

	return zapr.NewLogger(
		zap.New(zapcore.NewCore(b.newEncoder(encCfg), sink, b.level), opts...),
	)
}

// FilterStacktraceOrigins removes every line in content that
// starts with tab. It is meant to be used for filtering call
// stack output from for example a logger when testing (as the exact
// lines of caller origin might vary for instance across Go versions).
func FilterStacktraceOrigins(content []byte) []byte {
	s := bufio.NewScanner(bytes.NewReader(content))
	out := make([]byte, 0, len(content))
	for s.Scan() {
		line := s.Bytes()
		if bytes.HasPrefix(line, []byte("\t")) {
			continue
		}

		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}
