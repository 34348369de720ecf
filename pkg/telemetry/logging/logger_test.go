package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/pulse/pkg/config"

	"go.opentelemetry.io/otel/trace"
)

func newTestLogger(t *testing.T, level, format string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: level, Format: format, Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return logger, buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid JSON config",
			config:  Config{Level: "info", Format: "json"},
			wantErr: false,
		},
		{
			name:    "valid text config",
			config:  Config{Level: "debug", Format: "text"},
			wantErr: false,
		},
		{
			name:    "valid console config",
			config:  Config{Level: "warn", Format: "console"},
			wantErr: false,
		},
		{
			name:    "empty config uses defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			config:  Config{Level: "invalid", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "info", Format: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.LoggingConfig{Level: "warn", Format: "text", AddSource: true})
	if cfg.Level != "warn" || cfg.Format != "text" || !cfg.AddSource {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*Logger, string)
		wantLog   bool
	}{
		{
			name:      "debug level logs debug",
			logLevel:  "debug",
			logMethod: func(l *Logger, msg string) { l.Debug(msg) },
			wantLog:   true,
		},
		{
			name:      "info level filters debug",
			logLevel:  "info",
			logMethod: func(l *Logger, msg string) { l.Debug(msg) },
			wantLog:   false,
		},
		{
			name:      "info level logs info",
			logLevel:  "info",
			logMethod: func(l *Logger, msg string) { l.Info(msg) },
			wantLog:   true,
		},
		{
			name:      "warn level filters info",
			logLevel:  "warn",
			logMethod: func(l *Logger, msg string) { l.Info(msg) },
			wantLog:   false,
		},
		{
			name:      "warn level logs warn",
			logLevel:  "warn",
			logMethod: func(l *Logger, msg string) { l.Warn(msg) },
			wantLog:   true,
		},
		{
			name:      "error level filters warn",
			logLevel:  "error",
			logMethod: func(l *Logger, msg string) { l.Warn(msg) },
			wantLog:   false,
		},
		{
			name:      "error level logs error",
			logLevel:  "error",
			logMethod: func(l *Logger, msg string) { l.Error(msg) },
			wantLog:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(t, tt.logLevel, "json")

			testMsg := "test message"
			tt.logMethod(logger, testMsg)

			hasLog := strings.Contains(buf.String(), testMsg)
			if hasLog != tt.wantLog {
				t.Errorf("Log filtering failed: got log=%v, want log=%v, output=%s",
					hasLog, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger, buf := newTestLogger(t, "info", "json")
	child := logger.With("component", "poller")

	child.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug message logged at info level: %s", buf.String())
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", logger.Level())
	}

	// Derived loggers share the level.
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug message not logged after SetLevel: %s", buf.String())
	}

	if err := logger.SetLevel("loud"); err == nil {
		t.Error("SetLevel(\"loud\") error = nil, want error")
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("invalid SetLevel changed level to %v", logger.Level())
	}
}

func TestLogger_StructuredFields(t *testing.T) {
	logger, buf := newTestLogger(t, "info", "json")

	logger.Info("test message",
		"string_field", "value",
		"int_field", 42,
		"float_field", 3.14,
		"bool_field", true,
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}

	if entry["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "test message")
	}
	if entry["string_field"] != "value" {
		t.Errorf("string_field = %v", entry["string_field"])
	}
	if entry["int_field"] != float64(42) {
		t.Errorf("int_field = %v", entry["int_field"])
	}
	if entry["bool_field"] != true {
		t.Errorf("bool_field = %v", entry["bool_field"])
	}
}

func TestLogger_With(t *testing.T) {
	logger, buf := newTestLogger(t, "info", "json")

	childLogger := logger.With("component", "server", "listen", "127.0.0.1:9000")
	childLogger.Info("test message")

	expectedFields := []string{"component", "server", "listen", "127.0.0.1:9000", "test message"}
	for _, field := range expectedFields {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("Expected field %q not found in output: %s", field, buf.String())
		}
	}
}

func TestLogger_ContextFields(t *testing.T) {
	logger, buf := newTestLogger(t, "debug", "json")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	ctx := WithRequestID(context.Background(), "req-456")
	ctx = trace.ContextWithSpanContext(ctx, sc)

	logger.InfoContext(ctx, "handled")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["request_id"] != "req-456" {
		t.Errorf("request_id = %v, want req-456", entry["request_id"])
	}
	if entry["trace_id"] != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace_id = %v", entry["trace_id"])
	}
	if entry["span_id"] != "00f067aa0ba902b7" {
		t.Errorf("span_id = %v", entry["span_id"])
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	logger, buf := newTestLogger(t, "debug", "json")
	ctx := WithRequestID(context.Background(), "req-789")

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 log lines, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "req-789") {
			t.Errorf("line missing request id: %s", line)
		}
	}
}

func TestLogger_SlogDefault(t *testing.T) {
	logger, buf := newTestLogger(t, "info", "json")

	prev := slog.Default()
	slog.SetDefault(logger.Slog())
	defer slog.SetDefault(prev)

	slog.InfoContext(WithRequestID(context.Background(), "req-1"), "via default")
	if !strings.Contains(buf.String(), "req-1") {
		t.Errorf("default logger did not add request id: %s", buf.String())
	}
}

func TestLogger_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: `"msg":"format test"`},
		{format: "text", want: `msg="format test"`},
		{format: "console", want: `msg="format test"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			logger, buf := newTestLogger(t, "info", tt.format)
			logger.Info("format test")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLogger_AddSource(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", AddSource: true, Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("with source")
	if !strings.Contains(buf.String(), `"source"`) {
		t.Errorf("expected source field in output: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"", FormatJSON, false},
		{"text", FormatText, false},
		{"console", FormatConsole, false},
		{"xml", FormatJSON, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
