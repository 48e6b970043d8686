package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", TraceID(ctx))

	ctx = WithTraceID(ctx, "abc")
	assert.Equal(t, "abc", TraceID(ctx))
	assert.Equal(t, "def", TraceID(WithTraceID(ctx, "def")))
}

func TestLoggerLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		LevelDebug: zapcore.DebugLevel,
		LevelWarn:  zapcore.WarnLevel,
		LevelError: zapcore.ErrorLevel,
		"bogus":    zapcore.DebugLevel,
	}
	for level, want := range cases {
		t.Run(level, func(t *testing.T) {
			l := &zapLogger{cfg: &ZapConfig{Level: level}}
			assert.Equal(t, want, l.getLoggerLevel())
		})
	}
}

func TestLoggers(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	for _, l := range []Logger{
		NewNop(),
		Init(ZapConfig{Level: LevelError, Mode: ModeProduction, Encoding: EncodingJSON, Service: "svc"}),
		Init(ZapConfig{Level: LevelError, Mode: ModeDevelopment, Encoding: EncodingConsole, ColorEnabled: true}),
	} {
		assert.NotPanics(t, func() {
			l.Debugf(ctx, "dropped %d", 1)
			l.Info(ctx, "dropped")
			l.Warnf(ctx, "dropped %s", "x")
		})
		assert.Panics(t, func() { l.Info(nil, "x") })
	}
}
