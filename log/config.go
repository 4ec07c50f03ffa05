package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

// Level is the minimum severity of records emitted by a [Logger].
type Level slog.Level

// Supported levels. Values match their [slog.Level] counterparts, with
// [LevelTrace] one step below debug.
const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// Format selects the record encoding.
type Format int

// Supported formats.
const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// Defaults applied by [WithDefaults].
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatJSON
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = false
)

// Levels returns the names of all supported levels, most verbose first.
func Levels() []string {
	return []string{
		LevelTrace.String(),
		LevelDebug.String(),
		LevelInfo.String(),
		LevelWarn.String(),
		LevelError.String(),
	}
}

// Formats returns the names of all supported formats.
func Formats() []string {
	return []string{FormatText.String(), FormatJSON.String()}
}

// ParseLevel returns the level named s, or [DefaultLevel] if s is not
// recognized.
func ParseLevel(s string) Level {
	for _, l := range []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if strings.EqualFold(s, l.String()) {
			return l
		}
	}

	return DefaultLevel
}

// ParseFormat returns the format named s, or [DefaultFormat] if s is not
// recognized.
func ParseFormat(s string) Format {
	for _, f := range []Format{FormatText, FormatJSON} {
		if strings.EqualFold(s, f.String()) {
			return f
		}
	}

	return DefaultFormat
}

// timeLayouts maps the names accepted by [WithTimeLayout] to layouts.
//
//nolint:gochecknoglobals
var timeLayouts = map[string]string{
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rfc822":      time.RFC822,
	"rfc1123":     time.RFC1123,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
}

// config is an immutable snapshot of logger settings. Options return a
// modified copy.
type config struct {
	output     io.Writer
	timeLayout string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func defaultConfig() config {
	return config{
		output:     os.Stderr,
		timeLayout: DefaultTimeLayout,
		level:      DefaultLevel,
		format:     DefaultFormat,
		caller:     DefaultCaller,
		pretty:     DefaultPretty,
	}
}

// handler constructs the [slog.Handler] described by cfg.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty && c.format == FormatText:
		return newPrettyTextHandler(c.output, opts, c.timeLayout)
	case c.pretty:
		return newPrettyJSONHandler(c.output, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	default:
		return slog.NewJSONHandler(c.output, opts)
	}
}

// replaceAttr renders the built-in time and level attributes using the
// configured layout and the package's level names.
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			return slog.String(slog.TimeKey, t.Format(c.timeLayout))
		}
	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, Level(l).String())
		}
	}

	return a
}

// WithDefaults resets every setting to its default.
func WithDefaults() Option {
	return func(config) config { return defaultConfig() }
}

// WithOutput sets the destination writer. A nil writer is ignored.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w != nil {
			c.output = w
		}

		return c
	}
}

// WithLevel sets the minimum severity.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout. Named layouts such as "kitchen"
// or "rfc3339" are recognized case-insensitively; anything else is used as a
// [time.Time.Format] layout verbatim.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		if named, ok := timeLayouts[strings.ToLower(layout)]; ok {
			c.timeLayout = named
		} else if layout != "" {
			c.timeLayout = layout
		}

		return c
	}
}

// WithCaller toggles source location annotations.
func WithCaller(caller bool) Option {
	return func(c config) config {
		c.caller = caller

		return c
	}
}

// WithPretty toggles human-oriented rendering.
func WithPretty(pretty bool) Option {
	return func(c config) config {
		c.pretty = pretty

		return c
	}
}
