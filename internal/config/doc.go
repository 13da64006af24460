// Package config provides configuration structures and utilities for
// xilreport. It defines the options for locating and filtering reports,
// output formats, the history database, and the per-project .xilreport
// file with toolchain settings and message waivers.
package config
