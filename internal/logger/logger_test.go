package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger resets the logger to default state for test isolation
func resetLogger() {
	Init(Options{})
}

// --- Level Tests ---

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		logged map[string]bool
	}{
		{"default", Options{}, map[string]bool{"debug": false, "info": true, "warn": true, "error": true}},
		{"debug", Options{Debug: true}, map[string]bool{"debug": true, "info": true, "warn": true, "error": true}},
		{"quiet", Options{Quiet: true}, map[string]bool{"debug": false, "info": false, "warn": false, "error": true}},
		{"quiet overrides debug", Options{Debug: true, Quiet: true}, map[string]bool{"debug": false, "info": false, "warn": false, "error": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Debug("msg-debug")
			Info("msg-info")
			Warn("msg-warn")
			Error("msg-error")

			for level, want := range tt.logged {
				got := strings.Contains(buf.String(), "msg-"+level)
				if got != want {
					t.Errorf("%s logged = %v, want %v", level, got, want)
				}
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	Init(Options{Output: &bytes.Buffer{}})
	defer resetLogger()

	if Enabled(slog.LevelDebug) {
		t.Error("debug should be disabled by default")
	}
	if !Enabled(slog.LevelWarn) {
		t.Error("warn should be enabled by default")
	}

	Init(Options{Debug: true, Output: &bytes.Buffer{}})
	if !Enabled(slog.LevelDebug) {
		t.Error("debug should be enabled with Debug=true")
	}
}

// --- Format Tests ---

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("wrote page", "page", "About Us", "bytes", 42)

	output := buf.String()
	for _, want := range []string{`"msg":"wrote page"`, `"page":"About Us"`, `"bytes":42`, `"level":"INFO"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in JSON output, got %q", want, output)
		}
	}
}

func TestInit_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Warn("missing page", "page", "Contact")

	output := buf.String()
	for _, want := range []string{"level=WARN", `msg="missing page"`, "page=Contact"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in text output, got %q", want, output)
		}
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewTextHandler(buf, nil))
	Init(Options{Logger: custom, Quiet: true})
	defer resetLogger()

	Info("from custom")
	if !strings.Contains(buf.String(), "from custom") {
		t.Error("custom logger should ignore the other options")
	}
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer resetLogger()

	Info("via set logger")
	if !strings.Contains(buf.String(), "via set logger") {
		t.Error("expected message through the logger set by SetLogger")
	}
}

// --- With Tests ---

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	logger := With("page", "Home")
	if logger == nil {
		t.Fatal("With() returned nil")
	}

	logger.Info("converted")

	output := buf.String()
	if !strings.Contains(output, "converted") || !strings.Contains(output, "page=Home") {
		t.Errorf("expected message and attributes, got %q", output)
	}
}

// --- Context Tests ---

func TestContextFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "debug with context")
	InfoContext(ctx, "info with context")
	WarnContext(ctx, "warn with context")
	ErrorContext(ctx, "error with context")

	for _, want := range []string{"debug with context", "info with context", "warn with context", "error with context"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q to be logged", want)
		}
	}
}
