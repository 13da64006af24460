// Package pipeline runs report files through a sequence of steps.
//
// A default pipeline parses the report, builds a filtered summary, hashes
// the file, reads the accompanying timing score and optionally stores the
// result in the history database. Each stage is a Step that receives the
// current Job and can modify it.
//
// The BatchProcessor runs one pipeline per report with bounded
// concurrency using errgroup, keeping results in input order.
package pipeline
