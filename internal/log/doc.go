// Package log provides logger construction for xilreport, built on the
// standard slog package.
//
// Vendor tools routinely print megabytes of output, and the toolchain
// runner logs captured stdout at debug level. TruncatingHandler wraps any
// slog.Handler and shortens oversized string attributes before they reach
// the underlying handler, so a verbose run stays readable.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("command finished", "stdout", hugeOutput) // shortened
package log
