package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/letlang/cli/cmd/repl"
	"github.com/ardnew/letlang/lang"
	"github.com/ardnew/letlang/log"
)

// Repl starts an interactive session.
type Repl struct {
	History   string   `default:"${history}" help:"History file."                                   type:"path"`
	NoHistory bool     `                     help:"Keep history in memory only."`
	Source    []string `arg:""               help:"Source file(s) whose definitions are preloaded." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()
	opts := []lang.Option{lang.WithLogger(logger)}
	env := lang.NewEnvironment()

	if len(r.Source) > 0 {
		if err := preload(ctx, env, r.Source, opts...); err != nil {
			return err
		}
	}

	history := r.History
	if r.NoHistory {
		history = ""
	}

	err = repl.Run(ctx,
		repl.WithLogger(logger),
		repl.WithEnvironment(env),
		repl.WithHistoryFile(history),
		repl.WithLangOptions(opts...),
	)
	if err != nil {
		return ErrREPL.Wrap(err)
	}

	return nil
}

// preload evaluates the named sources into env so that their function
// definitions are available in the session.
func preload(
	ctx context.Context,
	env *lang.Environment,
	sources []string,
	opts ...lang.Option,
) error {
	srcs, err := openSources(sources)
	if err != nil {
		return err
	}

	defer func() {
		for _, s := range srcs {
			_ = s.Close()
		}
	}()

	for _, src := range srcs {
		prog, err := parseSource(ctx, src, opts...)
		if err != nil {
			return err
		}

		if _, err := prog.Evaluate(ctx, env, opts...); err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("source", src.Name()))
		}
	}

	return nil
}
