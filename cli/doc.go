// Package cli contains the command line interface for letlang.
//
// # Usage
//
//	letlang [flags] [SOURCE ...]          evaluate (default command)
//	letlang eval --expect 'result == 120' fact.let
//	letlang fmt json fact.let
//	letlang repl lib.let
//	letlang init --force
//
// A SOURCE of "-" (or no SOURCE at all) reads stdin. A relative SOURCE not
// found in the working directory is searched for in the directories listed
// in LETLANG_PATH.
//
// # Configuration
//
// Flags may be set in the YAML file <user config dir>/letlang/config.yaml.
// Keys name flags with hyphens or underscores, and nested mappings are
// joined with hyphens:
//
//	log:
//	  level: debug
//	  format: text
//	log_pretty: false
//
// Command-line flags override config file values. The init command writes
// the current flag values to the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc. or a
//     Go time layout)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output and indent JSON output
//
// Logging flags are applied before the rest of the command line is parsed,
// so they affect the messages reported for parse errors too.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o letlang .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     <user cache dir>/letlang/pprof)
package cli
