// Package logging builds slog loggers for punchtrack.
//
// Output goes to stdout plus a log file under the configured log directory.
// The console format uses slog's text handler; a JSON format is available for
// machine consumption. Store-level sync failures are logged here and never
// escalate into the editing session.
package logging
