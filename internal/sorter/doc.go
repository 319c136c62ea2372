// Package sorter copies the files of one directory into extension-named
// subdirectories of a target root.
//
// A run has four parts:
//   - TargetDirFor maps a file name to root/<ext>, or reports that the file
//     has no extension and is skipped
//   - the Coordinator is a single goroutine that owns the set of confirmed
//     target directories and is the only code that stats or creates them
//   - one worker per file asks the Coordinator for its directory, waits for
//     the reply, then copies the file
//   - Sorter.Run validates the source, plans the run, spawns the workers,
//     joins them, and shuts the Coordinator down
//
// Because every directory decision is serialized through the Coordinator, a
// directory is statted or created at most once per run no matter how many
// files need it. Per-file failures are isolated and reported in the Summary.
package sorter
