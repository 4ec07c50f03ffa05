package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache stores parse results keyed by (depth_limit:source_hash).
var programCache sync.Map

// cached is one parse result, shared by every caller parsing the same source
// with the same depth limit.
type cached struct {
	once sync.Once
	prog *Program
	err  error
}

func cacheKey(src string, o options) string {
	return strconv.Itoa(o.maxDepth) + ":" +
		strconv.FormatUint(xxh3.HashString(src), 36)
}

// ParseCached is [ParseString] with memoization: parsing the same source
// with the same depth limit returns the same [*Program] and error. The
// shared tree must not be modified.
//
// Tracing bypasses the cache so that every traced parse emits its trace.
func ParseCached(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)
	if o.tracing {
		return ParseString(ctx, src, opts...)
	}

	key := cacheKey(src, o)

	value, hit := programCache.LoadOrStore(key, new(cached))
	entry := value.(*cached)

	entry.once.Do(func() {
		entry.prog, entry.err = ParseString(ctx, src, opts...)
	})

	o.logger.TraceContext(ctx, "parse cache",
		slog.String("key", key),
		slog.Bool("hit", hit),
		slog.Int("source_bytes", len(src)),
	)

	return entry.prog, entry.err
}

// ParseReader reads all of r and parses it with [ParseCached].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Read ahead asynchronously while earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	return ParseCached(ctx, string(data), opts...)
}

// ClearCache discards every memoized parse result.
func ClearCache() {
	programCache.Clear()
}
