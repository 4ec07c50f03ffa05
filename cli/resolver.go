package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/letlang/cli/cmd"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML
// configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is a mapping from flag names to values:
//   - Keys may use hyphens ("log-level") or underscores ("log_level")
//   - Nested mappings are flattened by joining keys with hyphens, so
//     "log: {level: debug}" sets --log-level
//   - Sequences set repeatable flags
//   - Numbers are passed to Kong as strings
//
// Example config file:
//
//	log-level: debug
//	log:
//	  format: text
//	  pretty: false
//
// Command-line flags override config file values. An empty document yields
// an empty configuration; a malformed one is reported as an error.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, cmd.ErrReadConfig.Wrap(err)
		}

		conf := make(config, len(doc))
		conf.flatten("", doc)

		return conf, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document whose
// keys are normalized to hyphenated flag names.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[normalizeKey(flag.Name)]; ok {
		return value, nil
	}

	// Not found: let Kong use defaults.
	return nil, nil
}

// flatten stores the leaves of doc in c, joining nested keys with hyphens.
func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		key = normalizeKey(key)
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = scalar(value)
	}
}

// normalizeKey maps a configuration key to its hyphenated flag name.
func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// scalar converts a decoded YAML value to a form Kong mappers accept.
func scalar(value any) any {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(scalar(item))
		}

		return strings.Join(items, ",")
	default:
		return v
	}
}
