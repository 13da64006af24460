// Package model defines the data structures shared across xilreport.
//
// The central type is ReportStore, the ordered and immutable sequence of
// messages parsed from one synthesis or build report. A Message is a single
// report line of the form
//
//	<SEVERITY>:<TOOL>:<NUMBER> - <TEXT>
//
// together with the zero-based line index it was read from. Messages have
// no globally unique key: the triple severity/tool/number is a grouping key
// (the identity), and several lines may share it.
//
// Summary is a serialisable snapshot of a store used by report writers and
// the history database.
package model
