package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnbound          = NewError("unbound identifier")
	ErrTypeMismatch     = NewError("type mismatch")
	ErrMixedType        = NewError("mixed numeric types")
	ErrNotBoolean       = NewError("boolean required")
	ErrNotInteger       = NewError("integer required")
	ErrNotList          = NewError("list required")
	ErrNotSet           = NewError("set required")
	ErrEmptySet         = NewError("empty set operand")
	ErrEmptyList        = NewError("empty list")
	ErrShortList        = NewError("list too short")
	ErrMixedList        = NewError("mixed list element types")
	ErrNestedList       = NewError("nested list element")
	ErrNotFunction      = NewError("not a function")
	ErrDivisionByZero   = NewError("integer division by zero")
	ErrMalformed        = NewError("malformed syntax tree")
	ErrMaxDepthExceeded = NewError("maximum evaluation depth exceeded")
	ErrParse            = NewError("parse error")
	ErrReadInput        = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
// Attributes follow the message in parentheses as key=value pairs.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")

	if len(e.attrs) == 0 {
		return msg
	}

	kv := make([]string, 0, len(e.attrs))
	for _, a := range e.attrs {
		kv = append(kv, a.Key+"="+a.Value.String())
	}

	return msg + " (" + strings.Join(kv, ", ") + ")"
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
// Errors derived from a sentinel with [Error.Wrap] or [Error.With] match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || len(t.attrs) > 0 {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(append(make([]slog.Attr, 0, len(e.attrs)+len(attrs)), e.attrs...), attrs...),
	}
}

// Line returns the value of the "line" attribute, or 0 if there is none.
func (e *Error) Line() int {
	for _, a := range e.attrs {
		if a.Key == "line" && a.Value.Kind() == slog.KindInt64 {
			return int(a.Value.Int64())
		}
	}

	return 0
}

// at attaches the source line of n to e.
func (e *Error) at(n Node) *Error {
	if isNil(n) {
		return e
	}

	return e.With(slog.Int("line", n.Line()))
}

// Diagnostic is a line-tagged message recorded by the parser.
type Diagnostic struct {
	Line    int
	Message string
}

// String renders d as "line N: message".
func (d Diagnostic) String() string {
	return "line " + strconv.Itoa(d.Line) + ": " + d.Message
}

// ParseError aggregates the diagnostics of a failed parse.
type ParseError struct {
	Diagnostics []Diagnostic
	Source      string // The original source input, if known
}

// Error implements the error interface. When the source is known, the line
// of the first diagnostic is quoted beneath it.
func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrParse.msg
	}

	first := e.Diagnostics[0]

	var buf strings.Builder

	buf.WriteString(ErrParse.msg)
	buf.WriteString(" at ")
	buf.WriteString(first.String())

	if n := len(e.Diagnostics) - 1; n > 0 {
		buf.WriteString(" (and ")
		buf.WriteString(strconv.Itoa(n))
		buf.WriteString(" more)")
	}

	if snippet := e.Snippet(); snippet != "" {
		buf.WriteRune('\n')
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Snippet returns the source line of the first diagnostic prefixed with its
// line number, or "" if the source is unknown.
func (e *ParseError) Snippet() string {
	if e.Source == "" || len(e.Diagnostics) == 0 {
		return ""
	}

	line := e.Diagnostics[0].Line
	lines := strings.Split(e.Source, "\n")

	if line < 1 || line > len(lines) {
		return ""
	}

	return "  " + strconv.Itoa(line) + " | " + strings.TrimRight(lines[line-1], "\r")
}

// Unwrap returns [ErrParse] so callers can match any parse failure.
func (e *ParseError) Unwrap() error { return ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.Diagnostics)+1)
	attrs = append(attrs, slog.String("error", ErrParse.msg))

	for i, d := range e.Diagnostics {
		attrs = append(attrs, slog.Group(strconv.Itoa(i),
			slog.Int("line", d.Line), slog.String("message", d.Message)))
	}

	return slog.GroupValue(attrs...)
}
