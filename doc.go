// Package main provides the tidy command-line interface.
//
// tidy sorts the files of a directory into subdirectories named after their
// extensions, copying every file concurrently. Each extension directory is
// created or validated once per run by a single coordinator goroutine that
// the file workers ask before copying.
//
// The main binary supports these subcommands alongside the sort itself:
//   - count: Count files per extension in a directory
//   - seed: Generate a messy directory to try tidy on
//   - config: Print the effective configuration
package main
