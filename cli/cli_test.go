package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/letlang/log"
	"github.com/ardnew/letlang/pkg"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "letlang-cli-test-*")
	if err != nil {
		panic(err)
	}

	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

// exitCode is raised by the exit function given to [run] in tests.
type exitCode int

// runCLI runs the CLI with args, capturing its output and exit code. A code
// of -1 means the exit function was not called.
func runCLI(t *testing.T, args ...string) (out, errOut string, code int, err error) {
	t.Helper()

	t.Cleanup(func() { log.Config(log.WithDefaults()) })

	var stdout, stderr bytes.Buffer

	code = -1

	func() {
		defer func() {
			if r := recover(); r != nil {
				c, ok := r.(exitCode)
				if !ok {
					panic(r)
				}

				code = int(c)
			}
		}()

		err = run(
			context.Background(),
			func(c int) { panic(exitCode(c)) },
			[]kong.Option{kong.Writers(&stdout, &stderr)},
			append([]string{"--log-level=error"}, args...),
		)
	}()

	return stdout.String(), stderr.String(), code, err
}

func TestRunEval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fact.let")

	err := os.WriteFile(path, []byte(
		"fun fact n ~ self ~ if n <= 1 then 1 else n * (apply self (n - 1))\n"+
			"apply fact 6\n",
	), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{
		{path},
		{"eval", path},
		{"eval", "--expect", "result == 720", path},
	} {
		out, _, code, err := runCLI(t, args...)
		if err != nil || code != -1 {
			t.Fatalf("run(%q) = (%d, %v)", args, code, err)
		}

		if out != "720\n" {
			t.Errorf("run(%q) stdout = %q, want %q", args, out, "720\n")
		}
	}
}

func TestRunFmt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sum.let")
	if err := os.WriteFile(path, []byte("1+2*3"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, _, err := runCLI(t, "fmt", path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if out != "1 + 2 * 3\n" {
		t.Errorf("stdout = %q, want %q", out, "1 + 2 * 3\n")
	}
}

func TestRunVersion(t *testing.T) {
	out, _, code, _ := runCLI(t, "--version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	if strings.TrimSpace(out) != pkg.Version() {
		t.Errorf("stdout = %q, want %q", out, pkg.Version())
	}
}

func TestRunInit(t *testing.T) {
	path := configPath(configFile)

	t.Cleanup(func() { os.Remove(path) })

	_, _, _, err := runCLI(t, "init", "--force")
	if err != nil {
		t.Fatalf("run(init) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("config is not YAML: %v\n%s", err, data)
	}

	if doc["log-level"] != "error" {
		t.Errorf("log-level = %v, want error", doc["log-level"])
	}

	for key := range doc {
		if strings.HasPrefix(key, "pprof") || key == "help" || key == "version" {
			t.Errorf("config contains ignored flag %q", key)
		}
	}

	// A second run refuses to replace the file.
	_, _, _, err = runCLI(t, "init")
	if err == nil {
		t.Error("run(init) without --force succeeded over an existing file")
	}
}
