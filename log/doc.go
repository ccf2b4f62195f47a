// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured with functional options when created:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
//	logger.Info("tangled", slog.String("file", "main.go"), slog.Int("lines", 42))
//
// Every level has a context-aware variant. The variants without a context
// use [DefaultContextProvider], which returns [context.TODO].
//
// [LevelTrace] sits below [LevelDebug] and is used for step-by-step traces
// of chunk tree construction and assembly.
//
// When the output is a terminal, records are styled with lipgloss. The
// package-level functions write to a default logger on [os.Stderr] that can
// be reconfigured with [Config].
package log
