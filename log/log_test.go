package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	logger.Info("hello", slog.Int("n", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if rec["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", rec["msg"])
	}

	if rec["level"] != "info" {
		t.Errorf("level = %v, want info", rec["level"])
	}

	if rec["n"] != float64(3) {
		t.Errorf("n = %v, want 3", rec["n"])
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		emit  func(Logger)
		want  bool
	}{
		{"trace hidden at debug", LevelDebug, func(l Logger) { l.Trace("x") }, false},
		{"trace shown at trace", LevelTrace, func(l Logger) { l.Trace("x") }, true},
		{"debug hidden at info", LevelInfo, func(l Logger) { l.Debug("x") }, false},
		{"warn shown at info", LevelInfo, func(l Logger) { l.Warn("x") }, true},
		{"error shown at error", LevelError, func(l Logger) { l.Error("x") }, true},
		{"warn hidden at error", LevelError, func(l Logger) { l.Warn("x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.emit(Make(&buf, WithLevel(tt.level)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("emitted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithLevel(LevelTrace), WithFormat(FormatText)).Trace("step")

	if !strings.Contains(buf.String(), "level=trace") {
		t.Errorf("output %q does not name the trace level", buf.String())
	}
}

func TestWrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithFormat(FormatText))

	if wrapped.Level() != LevelWarn {
		t.Errorf("wrapped Level() = %v, want %v", wrapped.Level(), LevelWarn)
	}

	if wrapped.Format() != FormatText {
		t.Errorf("wrapped Format() = %v, want %v", wrapped.Format(), FormatText)
	}

	if base.Format() != DefaultFormat {
		t.Errorf("base Format() changed to %v", base.Format())
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatText)).With("component", "parser").Info("ok")

	if !strings.Contains(buf.String(), "component=parser") {
		t.Errorf("output %q missing attribute", buf.String())
	}
}

func TestCaller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatText), WithCaller(true)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("output %q does not reference the calling file", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"text", FormatText},
		{"JSON", FormatJSON},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStringers(t *testing.T) {
	if got := Level(3).String(); got != "Level(3)" {
		t.Errorf("Level(3).String() = %q", got)
	}

	if got := Format(9).String(); got != "Format(9)" {
		t.Errorf("Format(9).String() = %q", got)
	}

	if got := strings.Join(Levels(), ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %q", got)
	}

	if got := strings.Join(Formats(), ","); got != "text,json" {
		t.Errorf("Formats() = %q", got)
	}
}

func TestWithTimeLayout(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"kitchen", "3:04PM"},
		{"RFC3339", DefaultTimeLayout},
		{"2006", "2006"},
		{"", DefaultTimeLayout},
	}

	for _, tt := range tests {
		cfg := apply(defaultConfig(), WithTimeLayout(tt.in))
		if cfg.timeLayout != tt.want {
			t.Errorf("WithTimeLayout(%q) = %q, want %q", tt.in, cfg.timeLayout, tt.want)
		}
	}
}

func TestConfigDefault(t *testing.T) {
	var buf bytes.Buffer

	prev := Default()
	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLogger = prev
		defaultMu.Unlock()
	})

	Config(WithOutput(&buf), WithFormat(FormatText), WithLevel(LevelDebug))
	Debug("from package")

	if !strings.Contains(buf.String(), "from package") {
		t.Errorf("default logger output %q missing message", buf.String())
	}
}
