package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{"production logger", "production"},
		{"development logger", "development"},
		{"unknown env falls back to development", "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.env)
			if err != nil {
				t.Fatalf("New(%q) returned error: %v", tt.env, err)
			}
			if log == nil {
				t.Fatalf("New(%q) returned nil logger", tt.env)
			}
			defer log.Sync()
		})
	}
}

func TestNewWithDefaults(t *testing.T) {
	log := NewWithDefaults()
	if log == nil {
		t.Fatal("NewWithDefaults returned nil logger")
	}
	defer log.Sync()
}

func TestProperty_LogEntriesAreStructuredJSON(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every entry decodes as JSON with level, timestamp and message", prop.ForAll(
		func(message string) bool {
			var buf bytes.Buffer

			encoderConfig := zapcore.EncoderConfig{
				TimeKey:        "timestamp",
				LevelKey:       "level",
				MessageKey:     "message",
				LineEnding:     zapcore.DefaultLineEnding,
				EncodeLevel:    zapcore.LowercaseLevelEncoder,
				EncodeTime:     zapcore.ISO8601TimeEncoder,
				EncodeDuration: zapcore.SecondsDurationEncoder,
			}

			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)

			log := zap.New(core)
			defer log.Sync()

			log.Info(message)

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			for _, key := range []string{"level", "timestamp", "message"} {
				if _, ok := entry[key]; !ok {
					t.Logf("FAIL: entry missing %q field", key)
					return false
				}
			}

			return entry["message"] == message
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
