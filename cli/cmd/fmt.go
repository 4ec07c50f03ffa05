package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/letlang/lang"
	"github.com/ardnew/letlang/log"
	"github.com/ardnew/letlang/pkg"
)

// Fmt parses source files and prints them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical letlang source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format the syntax tree as an indented outline."`
}

// formatter writes one parsed program to w.
type formatter func(ctx context.Context, w io.Writer, prog *lang.Program) error

// format parses every named source and writes it with f. Sources that fail
// to parse are reported and skipped; the failures are returned together
// after the remaining sources have been written.
func format(ctx context.Context, name string, sources []string, f formatter) error {
	srcs, err := openSources(sources)
	if err != nil {
		return err
	}

	defer func() {
		for _, s := range srcs {
			_ = s.Close()
		}
	}()

	var failed pkg.Error

	w := stdout(ctx)

	for _, src := range srcs {
		prog, err := parseSource(ctx, src, lang.WithLogger(log.Default()))
		if err != nil {
			failed = failed.Wrap(err)

			continue
		}

		if err := f(ctx, w, prog); err != nil {
			return err
		}

		log.TraceContext(ctx, "formatted source",
			slog.String("format", name),
			slog.String("source", src.Name()),
		)
	}

	if len(failed) > 0 {
		return failed
	}

	return nil
}

// Native formats input as canonical letlang source, one item per line.
type Native struct {
	Comments bool     `help:"Keep comments." negatable:"" default:"true"`
	Source   []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the native format command.
func (n *Native) Run(ctx context.Context) error {
	return format(ctx, "native", n.Source,
		func(_ context.Context, w io.Writer, prog *lang.Program) error {
			if !n.Comments {
				prog = &lang.Program{Items: prog.Items}
			}

			_, err := fmt.Fprintln(w, lang.Format(prog))

			return err
		})
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Indent int      `default:"2" help:"Indent width for JSON output (0 for compact)." short:"i"`
	Source []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.Source,
		func(_ context.Context, w io.Writer, prog *lang.Program) error {
			var (
				data []byte
				err  error
			)

			if j.Indent > 0 {
				data, err = json.MarshalIndent(prog, "", strings.Repeat(" ", j.Indent))
			} else {
				data, err = json.Marshal(prog)
			}

			if err != nil {
				return ErrJSONMarshal.Wrap(err)
			}

			_, err = fmt.Fprintln(w, string(data))

			return err
		})
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Indent int      `default:"2" help:"Indent width for YAML output (0 for flow style)." short:"i"`
	Source []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.Source,
		func(ctx context.Context, w io.Writer, prog *lang.Program) error {
			var opts []yaml.EncodeOption
			if y.Indent > 0 {
				opts = append(opts, yaml.Indent(y.Indent))
			} else {
				opts = append(opts, yaml.Flow(true))
			}

			data, err := yaml.MarshalContext(ctx, lang.ToMap(prog), opts...)
			if err != nil {
				return ErrYAMLMarshal.Wrap(err)
			}

			_, err = fmt.Fprint(w, string(data))

			return err
		})
}

// AST formats the syntax tree as an indented outline.
type AST struct {
	Source []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, "ast", a.Source,
		func(_ context.Context, w io.Writer, prog *lang.Program) error {
			return lang.Dump(w, prog)
		})
}
