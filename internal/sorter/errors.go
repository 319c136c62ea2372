package sorter

import (
	"errors"
	"fmt"
)

// Sentinel errors for package sorter.
var (
	// ErrSourceNotDirectory is returned by Run when the source path is not a directory.
	ErrSourceNotDirectory = errors.New("source is not a directory")

	// ErrNotDirectory means a target directory path exists as something other than a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrCoordinatorStopped is returned to a request the coordinator will never answer.
	ErrCoordinatorStopped = errors.New("directory coordinator stopped")

	// ErrSameFile means a file's destination is the source file itself.
	ErrSameFile = errors.New("destination is the source file")
)

// DirError reports a target directory that could not be validated or created.
type DirError struct {
	Dir string
	Err error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("directory %s: %v", e.Dir, e.Err)
}

func (e *DirError) Unwrap() error { return e.Err }

// CopyError reports a failed copy of one file.
type CopyError struct {
	Source      string
	Destination string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
