// Package logging implements the engine's synchronous, per-goroutine logging
// core. Every goroutine that logs owns a private ring buffer into which a log
// line is assembled field by field; the completed line is flushed to the
// goroutine's output sink in one call. Because a goroutine is both the
// producer and the consumer of its own buffer, no locking is needed on the
// hot path - the only synchronized structure is the process-global registry
// that tracks the per-goroutine loggers.
//
// The package focuses on:
//   - A process-global level gate (Trace < Debug < Info < Warn < Error < Fatal)
//   - Allocation-conscious field appenders (integers via a two-digit lookup
//     table, RFC 3339 timestamps with selectable sub-second precision)
//   - Pluggable output sinks (stdout, discard, size- and day-rotating file)
//
// Key Components:
//
//   - Line: assembles one log line. Created via the level constructors
//     (logging.Info() etc.) which capture the call site, appended to with
//     typed field methods, and terminated with End() which writes the
//     trailing line feed and flushes the goroutine's buffer to its sink.
//
//   - Sink: the output function type. StdoutSink writes to standard output,
//     NullSink discards, and RotatingFileSink appends to a dated log file
//     that is rolled over on size overflow and on calendar-day change.
//
//   - SetSink: replaces the default sink for loggers created afterwards and,
//     additionally, the sink of the calling goroutine's existing logger.
//     Loggers already created by other goroutines keep the sink they were
//     created with.
//
// Within one goroutine, lines reach the sink in call order. Across
// goroutines no ordering is guaranteed: each flushes independently.
package logging
