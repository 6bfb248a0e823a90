// Package logger provides the structured logging interface used across igprofiler.
//
// It wraps zerolog behind a small Logger interface so components receive
// their logger explicitly instead of reaching for a package-level instance:
//
//	log, closeLog, err := logger.New(&cfg.Logging, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//
//	s := scraper.New(cfg, log, collector)
//
// Console output is pretty-printed with colours; when a log file is
// configured the same events are also written to it as JSON lines.
//
// Tests use NewTestLogger to capture messages, or Nop to discard them.
package logger
