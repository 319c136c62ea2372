package sorter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dendrascience/tidy/util"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Options tunes a Sorter. Zero values select defaults.
type Options struct {
	// QueueCapacity bounds the coordinator's request queue.
	QueueCapacity int
	// MaxWorkers caps concurrently running workers; zero runs one goroutine per file.
	MaxWorkers int
	// DirPerm is the permission for created target directories.
	DirPerm os.FileMode
	// Verify hashes every copy and removes mismatched destinations.
	Verify bool
}

// Sorter copies files into extension directories.
type Sorter struct {
	fs     afero.Fs
	opts   Options
	logger *slog.Logger
}

// New creates a Sorter over fs.
func New(fs afero.Fs, opts Options, logger *slog.Logger) *Sorter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sorter{fs: fs, opts: opts, logger: logger}
}

// Run sorts the regular files directly inside sourceDir into targetRoot.
//
// An error is returned only when the run cannot start: sourceDir missing,
// unreadable, or not a directory. Per-file failures are reported in the
// Summary and never stop other files.
func (s *Sorter) Run(ctx context.Context, sourceDir, targetRoot string) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)

	if err := validateSource(s.fs, sourceDir); err != nil {
		return nil, err
	}

	coord := StartCoordinator(s.fs, CoordinatorOptions{
		QueueCapacity: s.opts.QueueCapacity,
		DirPerm:       s.opts.DirPerm,
	}, logger)

	plan, err := readPlan(s.fs, sourceDir, filepath.Clean(targetRoot))
	if err != nil {
		coord.Shutdown()
		return nil, err
	}
	logger.Info("sorting",
		"source", sourceDir,
		"target", targetRoot,
		"files", len(plan.Tasks),
		"skipped", len(plan.Skipped),
	)

	results := s.runWorkers(ctx, coord, plan.Tasks, logger)

	// Every worker has its reply by now.
	stats := coord.Shutdown()

	summary := &Summary{
		RunID:       runID,
		Source:      sourceDir,
		Target:      targetRoot,
		Results:     results,
		Skipped:     plan.Skipped,
		Ignored:     plan.Ignored,
		Directories: stats,
		Duration:    time.Since(start),
	}
	logger.Info("sort complete",
		"copied", summary.Copied(),
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed()),
		"duration", summary.Duration,
	)
	return summary, nil
}

func (s *Sorter) runWorkers(ctx context.Context, coord *Coordinator, tasks []FileTask, logger *slog.Logger) []Result {
	w := &worker{
		fs:     s.fs,
		coord:  coord,
		copy:   util.CopyFile,
		logger: logger.With("component", "worker"),
	}
	if s.opts.Verify {
		w.copy = util.CopyFileVerified
	}

	p := pool.NewWithResults[Result]()
	if s.opts.MaxWorkers > 0 {
		p = p.WithMaxGoroutines(s.opts.MaxWorkers)
	}
	for _, task := range tasks {
		p.Go(func() Result {
			return w.safeRun(ctx, task)
		})
	}
	results := p.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Task.Source < results[j].Task.Source
	})
	return results
}

// safeRun turns a panicking worker into a failed result.
func (w *worker) safeRun(ctx context.Context, task FileTask) (result Result) {
	var pc panics.Catcher
	pc.Try(func() {
		result = w.run(ctx, task)
	})
	if r := pc.Recovered(); r != nil {
		w.logger.Error("worker panicked", "source", task.Source, "panic", r.Value)
		return Result{
			Task:        task,
			Status:      StatusCopyFailed,
			Destination: filepath.Join(task.Target, task.Name),
			Err:         fmt.Errorf("worker for %s: %w", task.Source, r.AsError()),
		}
	}
	return result
}
