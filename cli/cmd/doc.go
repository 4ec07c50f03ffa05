// Package cmd implements the letlang subcommands: eval, fmt, init and repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// (see [WithContext]); paths shared with the top-level CLI are passed as Kong
// variables named by the identifiers below.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the REPL history file.
	HistoryIdentifier = "history"
)
