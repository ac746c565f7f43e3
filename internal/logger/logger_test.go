package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := toZapLevel(in); got != want {
			t.Errorf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{FormatConsole, FormatJSON} {
		l := New(WarnLevel, format)
		if l == nil || l.SugaredLogger == nil {
			t.Fatalf("New(%q) returned nil logger", format)
		}
		if l.Desugar().Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("%s logger should not enable info at warn level", format)
		}
	}
	Nop().Infow("discarded", "key", "value")
}
