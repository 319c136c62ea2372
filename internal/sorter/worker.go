package sorter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Status is the outcome of one file's worker.
type Status int

const (
	// StatusCopied means the file was copied into its target directory.
	StatusCopied Status = iota
	// StatusDirFailed means the target directory could not be validated or created.
	StatusDirFailed
	// StatusCopyFailed means the copy itself failed.
	StatusCopyFailed
)

func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusDirFailed:
		return "directory failed"
	case StatusCopyFailed:
		return "copy failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result records what happened to one FileTask.
type Result struct {
	Task        FileTask
	Status      Status
	Destination string
	// How is meaningful only when the directory resolved.
	How   How
	Bytes int64
	Err   error
}

// copyFunc matches util.CopyFile and util.CopyFileVerified.
type copyFunc func(fs afero.Fs, src, dst string) (int64, error)

type worker struct {
	fs     afero.Fs
	coord  *Coordinator
	copy   copyFunc
	logger *slog.Logger
}

// run performs one file's request-then-copy sequence. It never creates
// directories and never retries.
func (w *worker) run(ctx context.Context, task FileTask) Result {
	dst := filepath.Join(task.Target, task.Name)
	result := Result{Task: task, Destination: dst}

	res, err := w.coord.Ensure(ctx, task.Target)
	if err != nil {
		result.Status = StatusDirFailed
		result.Err = err
		w.logger.Warn("target directory unavailable", "source", task.Source, "dir", task.Target, "error", err)
		return result
	}
	result.How = res.How

	if w.sameFile(task.Source, dst) {
		result.Status = StatusCopyFailed
		result.Err = &CopyError{Source: task.Source, Destination: dst, Err: ErrSameFile}
		w.logger.Warn("source is already in its target directory", "source", task.Source, "destination", dst)
		return result
	}

	n, err := w.copy(w.fs, task.Source, dst)
	result.Bytes = n
	if err != nil {
		result.Status = StatusCopyFailed
		result.Err = &CopyError{Source: task.Source, Destination: dst, Err: err}
		w.logger.Warn("copy failed", "source", task.Source, "destination", dst, "error", err)
		return result
	}

	result.Status = StatusCopied
	w.logger.Debug("copied", "source", task.Source, "destination", dst, "bytes", n, "dir", res.How.String())
	return result
}

// sameFile reports whether copying src to dst would open one file twice and
// truncate it.
func (w *worker) sameFile(src, dst string) bool {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return true
	}
	srcInfo, err := w.fs.Stat(src)
	if err != nil {
		return false
	}
	dstInfo, err := w.fs.Stat(dst)
	if err != nil {
		return false
	}
	return os.SameFile(srcInfo, dstInfo)
}
