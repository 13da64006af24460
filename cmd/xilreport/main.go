// Package main provides the entry point for the xilreport CLI.
//
// xilreport parses the synthesis and build reports written by the Xilinx
// ISE tools, groups their messages by identity and gates CI builds on them.
//
// Usage:
//
//	xilreport parse build/top.syr
//	xilreport check --dir build
//	xilreport run -- xst -ifn top.xst
//
// See --help for all available options.
package main

// main is the entry point for xilreport.
func main() {
	Execute()
}
