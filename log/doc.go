// Package log provides the structured logger shared by the interpreter and
// the command-line interface. It is a thin layer over [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program evaluated", slog.String("result", "7"))
//
// # Configuration
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
// [Logger.Wrap] derives a new logger from an existing one, overriding only
// the options given.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Parser tracing is emitted at [LevelTrace],
// so it only appears when the logger is configured to show it.
//
// # Default Logger
//
// The package-level functions ([Info], [Error], ...) write to a process-wide
// default logger that the CLI configures with [Config] while parsing flags.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText] are supported. With [WithPretty],
// text records are styled with lipgloss and JSON records are indented.
package log
