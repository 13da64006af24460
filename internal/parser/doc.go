// Package parser reads synthesis and timing reports produced by the ISE
// tool family.
//
// Parse scans a report line by line and keeps every line of the form
//
//	<SEVERITY>:<TOOL>:<NUMBER> - <TEXT>
//
// where SEVERITY and TOOL are runs of ASCII letters and NUMBER is a run of
// decimal digits. Anything else, including continuation lines of multi-line
// messages and tool names with digits or hyphens, is skipped without error.
// The only failure is an unreadable file.
//
// TimingScore extracts the score from the "Timing summary:" section of a
// timing report (*.twr).
package parser
