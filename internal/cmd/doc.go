// Package cmd provides the command-line interface implementation for tidy.
//
// The root command sorts a directory. It uses the Cobra library for command
// structure and is executed through Fang by the main package.
//
// The package is organized into the following commands:
//   - root: sorts SOURCE into OUTPUT and prints a summary
//   - count: per-extension counts of what a sort would copy
//   - seed: generates a cluttered directory to try tidy on
//   - config: prints the effective configuration
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. Sorting itself lives in the sorter
// package; this package only wires configuration, logging, the run lock, and
// output rendering around it.
package cmd
