package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/letlang/lang"
	"github.com/ardnew/letlang/log"
)

// Eval parses and evaluates source files, printing the resulting value.
//
// All sources share one environment, so function definitions made by a
// source are visible to the sources that follow it. The printed value is
// the value of the last item that is not a function definition.
type Eval struct {
	Trace        bool     `help:"Trace parser productions and tokens at the trace log level." short:"t"`
	Expect       string   `help:"Fail unless the expr-lang predicate over result and kind holds." placeholder:"EXPR" short:"e"`
	MaxDepth     int      `default:"${maxDepth}"     help:"Maximum nesting of grammar productions."`
	MaxEvalDepth int      `default:"${maxEvalDepth}" help:"Maximum nesting of evaluation."`
	Source       []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// expectEnv is the environment of an --expect predicate.
type expectEnv struct {
	Result any    `expr:"result"`
	Kind   string `expr:"kind"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Compile the expectation first so a malformed predicate fails before any
	// source is read.
	var expect *vm.Program

	if e.Expect != "" {
		expect, err = expr.Compile(e.Expect, expr.Env(expectEnv{}), expr.AsBool())
		if err != nil {
			return ErrExpectCompile.Wrap(err).With(slog.String("expect", e.Expect))
		}
	}

	srcs, err := openSources(e.Source)
	if err != nil {
		return err
	}

	defer func() {
		for _, s := range srcs {
			_ = s.Close()
		}
	}()

	logger := log.Default()
	if e.Trace {
		logger = logger.Wrap(log.WithLevel(log.LevelTrace))
	}

	opts := []lang.Option{
		lang.WithLogger(logger),
		lang.WithTracing(e.Trace),
		lang.WithMaxDepth(e.MaxDepth),
		lang.WithMaxEvalDepth(e.MaxEvalDepth),
	}

	env := lang.NewEnvironment()

	var result lang.Value

	for _, src := range srcs {
		prog, err := parseSource(ctx, src, opts...)
		if err != nil {
			return err
		}

		v, err := prog.Evaluate(ctx, env, opts...)
		if err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("source", src.Name()))
		}

		if v != nil {
			result = v
		}

		logger.DebugContext(ctx, "evaluated source",
			slog.String("source", src.Name()),
			slog.Int("items", len(prog.Items)),
			slog.Int("bindings", env.Len()),
		)
	}

	if result != nil {
		fmt.Fprintln(stdout(ctx), result)
	}

	if expect == nil {
		return nil
	}

	return e.check(expect, result)
}

// check runs the compiled --expect predicate against result.
func (e *Eval) check(program *vm.Program, result lang.Value) error {
	env := expectEnv{Result: lang.Native(result), Kind: lang.KindOf(result)}

	out, err := expr.Run(program, env)
	if err != nil {
		return ErrExpectation.Wrap(err).With(slog.String("expect", e.Expect))
	}

	if ok, _ := out.(bool); !ok {
		return ErrExpectation.With(
			slog.String("expect", e.Expect),
			slog.String("kind", env.Kind),
			slog.Any("result", env.Result),
		)
	}

	return nil
}
