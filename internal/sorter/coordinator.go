package sorter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const (
	// DefaultQueueCapacity bounds the coordinator's inbound request queue.
	DefaultQueueCapacity = 48

	// DefaultDirPerm is the permission used for directories the coordinator creates.
	DefaultDirPerm os.FileMode = 0o755
)

// How records which branch confirmed a target directory.
type How int

const (
	// Cached means the directory was already in the confirmed set.
	Cached How = iota
	// Existing means the directory was found on disk.
	Existing
	// Created means the coordinator created the directory.
	Created
)

func (h How) String() string {
	switch h {
	case Cached:
		return "cached"
	case Existing:
		return "existing"
	case Created:
		return "created"
	default:
		return fmt.Sprintf("How(%d)", int(h))
	}
}

// Resolution is the coordinator's answer to a successful Ensure.
type Resolution struct {
	Dir string
	How How
}

// DirStats summarizes the coordinator's decisions over one run.
type DirStats struct {
	Requests int
	Cached   int
	Existing int
	Created  int
	Failed   int

	// Attempts counts filesystem stat-or-create attempts per directory.
	// A directory that resolved successfully appears with a count of one.
	Attempts map[string]int
}

// CoordinatorOptions configures StartCoordinator. Zero values select defaults.
type CoordinatorOptions struct {
	QueueCapacity int
	DirPerm       os.FileMode
}

// request is either an ensureRequest or a shutdownRequest.
type request interface {
	isRequest()
}

type ensureRequest struct {
	dir   string
	reply chan<- reply
}

type shutdownRequest struct {
	done chan<- DirStats
}

func (ensureRequest) isRequest()   {}
func (shutdownRequest) isRequest() {}

type reply struct {
	res Resolution
	err error
}

// Coordinator is the only owner of the set of confirmed target directories.
// A single goroutine processes requests one at a time; callers reach it
// through Ensure and stop it with Shutdown.
type Coordinator struct {
	fs     afero.Fs
	perm   os.FileMode
	logger *slog.Logger

	requests chan request
	stopped  chan struct{}

	shutdownOnce sync.Once
	stats        DirStats
}

// StartCoordinator launches the coordinator goroutine and returns a handle to it.
func StartCoordinator(fs afero.Fs, opts CoordinatorOptions, logger *slog.Logger) *Coordinator {
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = DefaultQueueCapacity
	}
	if opts.DirPerm == 0 {
		opts.DirPerm = DefaultDirPerm
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Coordinator{
		fs:       fs,
		perm:     opts.DirPerm,
		logger:   logger.With("component", "coordinator"),
		requests: make(chan request, opts.QueueCapacity),
		stopped:  make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *Coordinator) loop() {
	confirmed := make(map[string]struct{})
	stats := DirStats{Attempts: make(map[string]int)}

	for req := range c.requests {
		switch r := req.(type) {
		case ensureRequest:
			res, err := c.resolve(confirmed, &stats, r.dir)
			r.reply <- reply{res: res, err: err}
		case shutdownRequest:
			c.drain()
			close(c.stopped)
			c.logger.Debug("coordinator terminated",
				"requests", stats.Requests,
				"created", stats.Created,
				"existing", stats.Existing,
				"failed", stats.Failed,
			)
			r.done <- stats
			return
		}
	}
}

// drain fails every request queued behind the shutdown.
func (c *Coordinator) drain() {
	for {
		select {
		case req := <-c.requests:
			c.logger.Warn("request received after shutdown", "request", fmt.Sprintf("%T", req))
			switch r := req.(type) {
			case ensureRequest:
				r.reply <- reply{res: Resolution{Dir: r.dir}, err: ErrCoordinatorStopped}
			case shutdownRequest:
				close(r.done)
			}
		default:
			return
		}
	}
}

func (c *Coordinator) resolve(confirmed map[string]struct{}, stats *DirStats, dir string) (Resolution, error) {
	stats.Requests++
	if _, ok := confirmed[dir]; ok {
		stats.Cached++
		c.logger.Debug("directory already confirmed", "dir", dir)
		return Resolution{Dir: dir, How: Cached}, nil
	}

	stats.Attempts[dir]++
	info, err := c.fs.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		confirmed[dir] = struct{}{}
		stats.Existing++
		c.logger.Debug("directory exists", "dir", dir)
		return Resolution{Dir: dir, How: Existing}, nil
	case err == nil:
		stats.Failed++
		c.logger.Warn("target path is not a directory", "dir", dir)
		return Resolution{Dir: dir}, &DirError{Dir: dir, Err: ErrNotDirectory}
	case !errors.Is(err, os.ErrNotExist):
		stats.Failed++
		c.logger.Warn("failed to stat directory", "dir", dir, "error", err)
		return Resolution{Dir: dir}, &DirError{Dir: dir, Err: err}
	}

	if err := c.fs.MkdirAll(dir, c.perm); err != nil {
		stats.Failed++
		c.logger.Warn("failed to create directory", "dir", dir, "error", err)
		return Resolution{Dir: dir}, &DirError{Dir: dir, Err: err}
	}
	confirmed[dir] = struct{}{}
	stats.Created++
	c.logger.Debug("directory created", "dir", dir)
	return Resolution{Dir: dir, How: Created}, nil
}

// Ensure asks the coordinator to guarantee that dir exists and blocks until
// it answers. A full request queue blocks the caller. Failures to validate or
// create the directory are returned as *DirError. A coordinator that stops
// before answering yields ErrCoordinatorStopped.
func (c *Coordinator) Ensure(ctx context.Context, dir string) (Resolution, error) {
	dir = filepath.Clean(dir)
	replies := make(chan reply, 1)

	select {
	case c.requests <- ensureRequest{dir: dir, reply: replies}:
	case <-c.stopped:
		return Resolution{Dir: dir}, fmt.Errorf("ensure %s: %w", dir, ErrCoordinatorStopped)
	case <-ctx.Done():
		return Resolution{Dir: dir}, ctx.Err()
	}

	select {
	case r := <-replies:
		return r.res, r.err
	case <-c.stopped:
		// The reply may have been sent just before the coordinator stopped.
		select {
		case r := <-replies:
			return r.res, r.err
		default:
			return Resolution{Dir: dir}, fmt.Errorf("ensure %s: %w", dir, ErrCoordinatorStopped)
		}
	case <-ctx.Done():
		return Resolution{Dir: dir}, ctx.Err()
	}
}

// Shutdown sends the terminal request, waits for the coordinator to finish
// every request queued ahead of it, and returns its statistics. Requests
// queued after the shutdown fail with ErrCoordinatorStopped. Calling
// Shutdown again returns the same statistics.
func (c *Coordinator) Shutdown() DirStats {
	c.shutdownOnce.Do(func() {
		done := make(chan DirStats, 1)
		c.requests <- shutdownRequest{done: done}
		c.stats = <-done
	})
	return c.stats
}

// Done is closed once the coordinator has terminated.
func (c *Coordinator) Done() <-chan struct{} {
	return c.stopped
}
