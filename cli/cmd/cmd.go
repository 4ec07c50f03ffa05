package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/letlang/lang"
	"github.com/ardnew/letlang/log"
	"github.com/ardnew/letlang/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer Kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the error writer Kong was configured with, or os.Stderr.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// vars returns the Kong variables of the running application.
func vars(ctx context.Context) kong.Vars {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Model != nil {
		return ktx.Model.Vars()
	}

	return kong.Vars{}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is an opened input file.
type source struct {
	io.Reader

	name  string
	close func() error
}

// Name returns the name used for the source in diagnostics.
func (s source) Name() string {
	if s.name == stdinSource {
		return "<stdin>"
	}

	return s.name
}

// Close releases the underlying file, if any.
func (s source) Close() error {
	if s.close == nil {
		return nil
	}

	return s.close()
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// openSources opens the named sources in order.
//
// An empty list reads stdin. Every occurrence of "-", and any named file that
// is stdin itself, collapses to a single stdin source placed last. Files are
// deduplicated by resolving symlinks and comparing device/inode pairs, and
// relative names missing from the working directory are looked up in the
// search path (see [searchPath]).
//
// On error, sources opened so far are closed.
func openSources(names []string) (srcs []source, err error) {
	if len(names) == 0 {
		return []source{{Reader: os.Stdin, name: stdinSource}}, nil
	}

	defer func() {
		if err != nil {
			for _, s := range srcs {
				_ = s.Close()
			}

			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, hasStdinKey := makeFileKey(stdinInfo)
	useStdin := false

	for _, name := range names {
		if name == stdinSource {
			useStdin = true

			continue
		}

		path, err := locate(name)
		if err != nil {
			return srcs, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return srcs, ErrOpenSource.Wrap(err).With(slog.String("source", name))
		}

		if key, ok := makeFileKey(info); ok {
			if hasStdinKey && key == stdinKey {
				useStdin = true

				continue
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		file, err := os.Open(path)
		if err != nil {
			return srcs, ErrOpenSource.Wrap(err).With(slog.String("source", name))
		}

		srcs = append(srcs, source{Reader: file, name: name, close: file.Close})
	}

	if useStdin {
		srcs = append(srcs, source{Reader: os.Stdin, name: stdinSource})
	}

	return srcs, nil
}

// locate resolves name to an existing file, consulting the search path for
// relative names not found in the working directory.
func locate(name string) (string, error) {
	if resolved, ok := existingFile(name); ok {
		return resolved, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPath() {
			if resolved, ok := existingFile(filepath.Join(dir, name)); ok {
				return resolved, nil
			}
		}
	}

	return "", ErrSourceMissing.With(
		slog.String("source", name),
		slog.String("env", pkg.PathEnv),
	)
}

// existingFile returns the symlink-resolved absolute path of name if it is
// an existing non-directory file.
func existingFile(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", false
	}

	return resolved, true
}

// isDir reports whether path names an existing directory.
func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// searchPath returns the directories searched for source files: the working
// directory followed by the existing directories listed in the environment
// variable named by [pkg.PathEnv], without duplicates.
func searchPath() []string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(pkg.PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(cwd),
		mung.WithFilter(isDir),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(list) {
		if dir != "" && isDir(dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// parseSource parses src, reporting every diagnostic on the error writer.
// The returned error wraps the [*lang.ParseError].
func parseSource(
	ctx context.Context,
	src source,
	opts ...lang.Option,
) (*lang.Program, error) {
	prog, err := lang.ParseReader(ctx, src, opts...)
	if err == nil {
		return prog, nil
	}

	var perr *lang.ParseError
	if !errors.As(err, &perr) {
		return nil, ErrOpenSource.Wrap(err).With(slog.String("source", src.Name()))
	}

	w := stderr(ctx)

	for _, d := range perr.Diagnostics {
		fmt.Fprintf(w, "%s:%s\n", src.Name(), d)
	}

	log.DebugContext(ctx, "parse failed",
		slog.String("source", src.Name()),
		slog.Int("diagnostics", len(perr.Diagnostics)),
	)

	return prog, ErrParse.Wrap(err).With(slog.String("source", src.Name()))
}
