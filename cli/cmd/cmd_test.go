package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/letlang/lang"
	"github.com/ardnew/letlang/pkg"
)

// testCLI mirrors the command tree of the letlang CLI without the logging
// and profiling flags.
type testCLI struct {
	Level string `default:"info" help:"Log level."`

	Init Init `cmd:""`
	Fmt  Fmt  `cmd:""`
	Eval Eval `cmd:"" default:"withargs"`
}

// runCommand parses args against a fresh [testCLI] and runs the selected
// command, returning everything written to stdout and stderr.
func runCommand(t *testing.T, vars kong.Vars, args ...string) (string, string, error) {
	t.Helper()

	var (
		cli         testCLI
		out, errOut bytes.Buffer
	)

	ctx := context.Background()

	parser, err := kong.New(&cli,
		kong.Name("letlang"),
		kong.Writers(&out, &errOut),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit(%d)", code) }),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.Vars{
			"maxDepth":        "1000",
			"maxEvalDepth":    "10000",
			ConfigIdentifier:  filepath.Join(t.TempDir(), "config.yaml"),
			HistoryIdentifier: filepath.Join(t.TempDir(), "history"),
		}.CloneWith(vars),
	)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", args, err)
	}

	ctx = WithContext(ctx, ktx)
	err = ktx.Run(ctx)

	return out.String(), errOut.String(), err
}

// writeSource creates a source file named name in dir.
func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readAll(t *testing.T, srcs []source) []string {
	t.Helper()

	var contents []string

	for _, s := range srcs {
		data, err := io.ReadAll(s)
		if err != nil {
			t.Fatalf("reading %s: %v", s.Name(), err)
		}

		contents = append(contents, string(data))
	}

	return contents
}

func closeAll(srcs []source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}

func TestOpenSourcesEmpty(t *testing.T) {
	t.Parallel()

	srcs, err := openSources(nil)
	if err != nil {
		t.Fatalf("openSources(nil) error = %v", err)
	}

	if len(srcs) != 1 || srcs[0].Name() != "<stdin>" {
		t.Fatalf("openSources(nil) = %v, want single stdin source", srcs)
	}
}

func TestOpenSourcesOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeSource(t, dir, "first.let", "1")
	second := writeSource(t, dir, "second.let", "2")

	srcs, err := openSources([]string{second, first})
	if err != nil {
		t.Fatalf("openSources() error = %v", err)
	}
	defer closeAll(srcs)

	got := readAll(t, srcs)
	if strings.Join(got, ",") != "2,1" {
		t.Errorf("contents = %q, want command-line order", got)
	}
}

func TestOpenSourcesDeduplicate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeSource(t, dir, "lib.let", "fun id x ~ x")
	link := filepath.Join(dir, "link.let")

	if err := os.Symlink(file, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}

	srcs, err := openSources([]string{file, link, filepath.Join(dir, ".", "lib.let")})
	if err != nil {
		t.Fatalf("openSources() error = %v", err)
	}
	defer closeAll(srcs)

	if len(srcs) != 1 {
		t.Fatalf("len(srcs) = %d, want 1", len(srcs))
	}

	if srcs[0].Name() != file {
		t.Errorf("Name() = %q, want first occurrence %q", srcs[0].Name(), file)
	}
}

func TestOpenSourcesStdinLast(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeSource(t, dir, "a.let", "1")

	srcs, err := openSources([]string{"-", file, "-"})
	if err != nil {
		t.Fatalf("openSources() error = %v", err)
	}
	defer closeAll(srcs)

	if len(srcs) != 2 {
		t.Fatalf("len(srcs) = %d, want 2", len(srcs))
	}

	if srcs[0].Name() != file || srcs[1].Name() != "<stdin>" {
		t.Errorf("names = %q, %q; want file then <stdin>", srcs[0].Name(), srcs[1].Name())
	}
}

func TestOpenSourcesMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeSource(t, dir, "a.let", "1")

	_, err := openSources([]string{file, filepath.Join(dir, "missing.let")})
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("openSources() error = %v, want %v", err, ErrSourceMissing)
	}
}

func TestOpenSourcesDirectory(t *testing.T) {
	t.Parallel()

	_, err := openSources([]string{t.TempDir()})
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("openSources(dir) error = %v, want %v", err, ErrSourceMissing)
	}
}

func TestLocateSearchPath(t *testing.T) {
	lib := t.TempDir()
	work := t.TempDir()
	writeSource(t, lib, "lib.let", "fun id x ~ x")

	t.Chdir(work)
	t.Setenv(pkg.PathEnv, strings.Join(
		[]string{filepath.Join(work, "absent"), lib},
		string(os.PathListSeparator),
	))

	got, err := locate("lib.let")
	if err != nil {
		t.Fatalf("locate() error = %v", err)
	}

	want, _ := filepath.EvalSymlinks(filepath.Join(lib, "lib.let"))
	if got != want {
		t.Errorf("locate() = %q, want %q", got, want)
	}

	// The working directory takes precedence over the search path.
	local := writeSource(t, work, "lib.let", "1")
	want, _ = filepath.EvalSymlinks(local)

	got, err = locate("lib.let")
	if err != nil {
		t.Fatalf("locate() error = %v", err)
	}

	if got != want {
		t.Errorf("locate() = %q, want working directory file %q", got, want)
	}
}

func TestSearchPathSkipsMissing(t *testing.T) {
	lib := t.TempDir()
	file := writeSource(t, lib, "not-a-dir.let", "1")

	t.Setenv(pkg.PathEnv, strings.Join(
		[]string{file, filepath.Join(lib, "absent"), lib},
		string(os.PathListSeparator),
	))

	for _, dir := range searchPath() {
		if !isDir(dir) {
			t.Errorf("searchPath() contains non-directory %q", dir)
		}
	}
}

func TestParseSourceDiagnostics(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer

	ktx := &kong.Context{Kong: &kong.Kong{Stderr: &errOut}}
	ctx := WithContext(context.Background(), ktx)

	src := source{Reader: strings.NewReader("1 +\nlet in"), name: "bad.let"}

	_, err := parseSource(ctx, src)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("parseSource() error = %v, want %v", err, ErrParse)
	}

	if !errors.Is(err, lang.ErrParse) {
		t.Errorf("parseSource() error = %v, should wrap %v", err, lang.ErrParse)
	}

	if !strings.HasPrefix(errOut.String(), "bad.let:line ") {
		t.Errorf("diagnostics = %q, want source-prefixed lines", errOut.String())
	}
}

func TestParseSourceValid(t *testing.T) {
	t.Parallel()

	src := source{Reader: strings.NewReader("fun id x ~ x\napply id 3"), name: "ok.let"}

	prog, err := parseSource(context.Background(), src)
	if err != nil {
		t.Fatalf("parseSource() error = %v", err)
	}

	if len(prog.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(prog.Items))
	}
}
