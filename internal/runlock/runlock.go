// Package runlock keeps two tidy runs from sorting into the same output root
// at once.
//
// The lock is an advisory flock on a file in the system temp directory. The
// file name is derived from the absolute output root, so the lock never has
// to create anything under the root itself.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/taigrr/colorhash"
)

// ErrLocked is returned when another process holds the lock for the root.
var ErrLocked = errors.New("another tidy run is using this output root")

// Lock is a held run lock.
type Lock struct {
	root string
	lock *flock.Flock
}

// PathFor returns the lock file path guarding root, placed in dir. An empty
// dir means os.TempDir().
func PathFor(dir, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve output root: %w", err)
	}
	if dir == "" {
		dir = os.TempDir()
	}
	bucket := colorhash.HashString(abs) % 1000000
	if bucket < 0 {
		bucket = -bucket
	}
	return filepath.Join(dir, fmt.Sprintf("tidy-%06d-%s.lock", bucket, filepath.Base(abs))), nil
}

// Acquire takes the lock for root without blocking. It fails with ErrLocked
// when another holder exists.
func Acquire(dir, root string) (*Lock, error) {
	path, err := PathFor(dir, root)
	if err != nil {
		return nil, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock %s)", ErrLocked, root, path)
	}
	return &Lock{root: root, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.lock.Path()
}

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.lock.Path(), err)
	}
	_ = os.Remove(l.lock.Path())
	return nil
}
