package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/letlang/lang"
	"github.com/ardnew/letlang/log"
)

// Session evaluates input lines against a persistent environment.
//
// Each line is parsed as a program. Function definitions are bound in the
// session environment and persist across lines; every other item is
// evaluated against a snapshot, so let bindings do not leak between lines.
type Session struct {
	env    *lang.Environment
	logger log.Logger
	opts   []lang.Option
}

// NewSession returns a session evaluating in env, or in a fresh environment
// if env is nil. The options are passed to the parser and evaluator.
func NewSession(env *lang.Environment, logger log.Logger, opts ...lang.Option) *Session {
	if env == nil {
		env = lang.NewEnvironment()
	}

	return &Session{
		env:    env,
		logger: logger,
		opts:   append([]lang.Option{lang.WithLogger(logger)}, opts...),
	}
}

// Env returns the session environment.
func (s *Session) Env() *lang.Environment { return s.env }

// Eval parses and evaluates line. It returns the printed form of the result:
// the value of the last item that is not a function definition, or the
// label of the last function defined when the line only defines functions.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	prog, err := lang.ParseCached(ctx, line, s.opts...)
	if err != nil {
		return "", err
	}

	v, err := prog.Evaluate(ctx, s.env, s.opts...)
	if err != nil {
		return "", err
	}

	s.logger.TraceContext(ctx, "repl eval result",
		slog.String("kind", lang.KindOf(v)),
		slog.Int("bindings", s.env.Len()),
	)

	if v != nil {
		return v.String(), nil
	}

	for i := len(prog.Items) - 1; i >= 0; i-- {
		if def, ok := prog.Items[i].(*lang.FunctionDef); ok && def != nil {
			return lang.Function{Def: def}.String(), nil
		}
	}

	return "", nil
}

// Names returns the names bound in the session environment, sorted.
func (s *Session) Names() []string {
	var names []string

	for name := range s.env.Names() {
		names = append(names, name)
	}

	return names
}

// Lookup returns the value bound to name in the session environment.
func (s *Session) Lookup(name string) (lang.Value, bool) {
	return s.env.Lookup(name)
}

// Definitions returns the session's function definitions in name order.
func (s *Session) Definitions() []*lang.FunctionDef {
	var defs []*lang.FunctionDef

	for _, name := range s.Names() {
		if fn, ok := s.lookupFunction(name); ok && fn.Def != nil {
			defs = append(defs, fn.Def)
		}
	}

	return defs
}

func (s *Session) lookupFunction(name string) (lang.Function, bool) {
	v, ok := s.env.Lookup(name)
	if !ok {
		return lang.Function{}, false
	}

	fn, ok := v.(lang.Function)

	return fn, ok
}

// Source returns the canonical source of the session's function
// definitions, one per line.
func (s *Session) Source() string {
	var b strings.Builder

	for _, def := range s.Definitions() {
		b.WriteString(lang.Format(def))
		b.WriteByte('\n')
	}

	return b.String()
}

// Replace parses src, which must contain only function definitions, and
// replaces the session environment with one holding exactly those.
func (s *Session) Replace(ctx context.Context, src string) error {
	prog, err := lang.ParseCached(ctx, src, s.opts...)
	if err != nil {
		return err
	}

	for _, item := range prog.Items {
		if _, ok := item.(*lang.FunctionDef); !ok {
			return fmt.Errorf("%w: line %d", ErrNotDefinitional, item.Line())
		}
	}

	env := lang.NewEnvironment()

	if _, err := prog.Evaluate(ctx, env, s.opts...); err != nil {
		return err
	}

	s.env = env

	return nil
}

// Describe renders every binding as "name = value", one per line.
func (s *Session) Describe() string {
	var b strings.Builder

	for _, name := range s.Names() {
		v, _ := s.env.Lookup(name)
		fmt.Fprintf(&b, "  %s = %s\n", name, describe(v))
	}

	return b.String()
}

// describe renders the source of a function binding, or the value itself.
func describe(v lang.Value) string {
	if fn, ok := v.(lang.Function); ok && fn.Def != nil {
		return lang.Format(fn.Def.Lambda)
	}

	return v.String()
}
