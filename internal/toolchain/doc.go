// Package toolchain runs external vendor tools and classifies the outcome.
//
// A Runner executes a Command with a timeout, captures its standard output,
// standard error and exit code, and returns a Result whose Outcome tells the
// caller how the run ended:
//
//   - OutcomeSuccess: exit code zero and no error markers.
//   - OutcomeToolReportedError: the tool printed "ERROR:" on stdout, or wrote
//     unexpected text to stderr when stderr checking is enabled.
//   - OutcomeProcessFailed: the process exited with a non-zero code.
//   - OutcomeMarkerMissing: a success marker was required but never printed.
//
// Tool locations are supplied through an Environment value that is turned
// into the child process environment at call time. The environment of the
// current process is never modified.
package toolchain
