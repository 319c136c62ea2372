package sorter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestCoordinator_ConcurrentRequestsSameDirectory(t *testing.T) {
	root := t.TempDir()
	fs := newCountingFs(afero.NewOsFs())
	coord := StartCoordinator(fs, CoordinatorOptions{QueueCapacity: 4}, nil)

	dir := filepath.Join(root, "txt")
	const n = 64

	var wg sync.WaitGroup
	results := make([]Resolution, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = coord.Ensure(context.Background(), dir)
		}()
	}
	wg.Wait()
	stats := coord.Shutdown()

	created := 0
	for i := range n {
		if errs[i] != nil {
			t.Fatalf("Ensure() #%d error = %v", i, errs[i])
		}
		if results[i].Dir != dir {
			t.Errorf("Ensure() #%d dir = %q, want %q", i, results[i].Dir, dir)
		}
		if results[i].How == Created {
			created++
		}
	}
	if created != 1 {
		t.Errorf("%d replies reported Created, want 1", created)
	}
	if got := fs.mkdirCount(dir); got != 1 {
		t.Errorf("MkdirAll(%q) called %d times, want 1", dir, got)
	}
	if stats.Requests != n || stats.Created != 1 || stats.Cached != n-1 {
		t.Errorf("stats = %+v, want %d requests, 1 created, %d cached", stats, n, n-1)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory %s not created: %v", dir, err)
	}
}

func TestCoordinator_AtMostOneAttemptPerDirectory(t *testing.T) {
	root := t.TempDir()
	fs := newCountingFs(afero.NewOsFs())
	coord := StartCoordinator(fs, CoordinatorOptions{QueueCapacity: 2}, nil)

	exts := []string{"txt", "md", "go", "png", "JPG", "tar"}
	// pre-existing directory takes the validation branch
	if err := os.Mkdir(filepath.Join(root, "md"), 0755); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := range 300 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dir := filepath.Join(root, exts[i%len(exts)])
			if _, err := coord.Ensure(context.Background(), dir); err != nil {
				t.Errorf("Ensure(%q) error = %v", dir, err)
			}
		}()
	}
	wg.Wait()
	stats := coord.Shutdown()

	for _, ext := range exts {
		dir := filepath.Join(root, ext)
		want := 1
		if ext == "md" {
			want = 0
		}
		if got := fs.mkdirCount(dir); got != want {
			t.Errorf("MkdirAll(%q) called %d times, want %d", dir, got, want)
		}
		if stats.Attempts[dir] != 1 {
			t.Errorf("attempts for %q = %d, want 1", dir, stats.Attempts[dir])
		}
	}
	if fs.maxInflight > 1 {
		t.Errorf("peak concurrent MkdirAll = %d, want 1", fs.maxInflight)
	}
	if stats.Existing != 1 || stats.Created != len(exts)-1 {
		t.Errorf("stats = %+v, want 1 existing, %d created", stats, len(exts)-1)
	}
}

func TestCoordinator_ExistingDirectory(t *testing.T) {
	root := t.TempDir()
	fs := newCountingFs(afero.NewOsFs())
	coord := StartCoordinator(fs, CoordinatorOptions{}, nil)
	defer coord.Shutdown()

	res, err := coord.Ensure(context.Background(), root)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if res.How != Existing {
		t.Errorf("How = %v, want %v", res.How, Existing)
	}
	res, err = coord.Ensure(context.Background(), root+string(filepath.Separator))
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if res.How != Cached {
		t.Errorf("second How = %v, want %v", res.How, Cached)
	}
	if fs.totalMkdirs() != 0 {
		t.Errorf("MkdirAll called %d times for an existing directory", fs.totalMkdirs())
	}
}

func TestCoordinator_NotADirectory(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "txt")
	if err := os.WriteFile(path, []byte("plain file"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := newCountingFs(afero.NewOsFs())
	coord := StartCoordinator(fs, CoordinatorOptions{}, nil)

	for i := range 2 {
		_, err := coord.Ensure(context.Background(), path)
		if !errors.Is(err, ErrNotDirectory) {
			t.Fatalf("Ensure() #%d error = %v, want %v", i, err, ErrNotDirectory)
		}
		var dirErr *DirError
		if !errors.As(err, &dirErr) || dirErr.Dir != path {
			t.Errorf("Ensure() #%d error = %#v, want *DirError for %q", i, err, path)
		}
	}
	stats := coord.Shutdown()

	// never confirmed, so each request is checked again
	if stats.Attempts[path] != 2 || stats.Failed != 2 || stats.Cached != 0 {
		t.Errorf("stats = %+v, want 2 attempts, 2 failed", stats)
	}
	if fs.totalMkdirs() != 0 {
		t.Errorf("MkdirAll called over a plain file")
	}
}

func TestCoordinator_CreationFailureRetries(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "pdf")

	fs := newCountingFs(afero.NewReadOnlyFs(afero.NewOsFs()))
	coord := StartCoordinator(fs, CoordinatorOptions{}, nil)

	for i := range 3 {
		_, err := coord.Ensure(context.Background(), dir)
		var dirErr *DirError
		if !errors.As(err, &dirErr) {
			t.Fatalf("Ensure() #%d error = %v, want *DirError", i, err)
		}
	}
	stats := coord.Shutdown()

	if got := fs.mkdirCount(dir); got != 3 {
		t.Errorf("MkdirAll called %d times, want 3 (failures are retried)", got)
	}
	if stats.Failed != 3 || stats.Created != 0 {
		t.Errorf("stats = %+v, want 3 failed", stats)
	}
}

func TestCoordinator_Shutdown(t *testing.T) {
	root := t.TempDir()
	coord := StartCoordinator(afero.NewOsFs(), CoordinatorOptions{}, nil)

	if _, err := coord.Ensure(context.Background(), filepath.Join(root, "a")); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	first := coord.Shutdown()

	select {
	case <-coord.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not terminate")
	}

	second := coord.Shutdown()
	if first.Requests != 1 || second.Requests != first.Requests {
		t.Errorf("Shutdown() stats = %+v then %+v, want 1 request both times", first, second)
	}

	done := make(chan error, 1)
	go func() {
		_, err := coord.Ensure(context.Background(), filepath.Join(root, "b"))
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrCoordinatorStopped) {
			t.Errorf("Ensure() after shutdown error = %v, want %v", err, ErrCoordinatorStopped)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Ensure() after shutdown blocked")
	}
	if _, err := os.Stat(filepath.Join(root, "b")); !os.IsNotExist(err) {
		t.Errorf("directory created after shutdown: %v", err)
	}
}

func TestCoordinator_ShutdownWaitsForQueuedRequests(t *testing.T) {
	root := t.TempDir()
	fs := newCountingFs(afero.NewOsFs())
	fs.gate = make(chan struct{})
	fs.entered = make(chan string, 8)
	coord := StartCoordinator(fs, CoordinatorOptions{QueueCapacity: 8}, nil)

	errs := make(chan error, 3)
	for i := range 3 {
		go func() {
			_, err := coord.Ensure(context.Background(), filepath.Join(root, fmt.Sprintf("d%d", i)))
			errs <- err
		}()
	}

	// The coordinator is now blocked inside its first MkdirAll.
	<-fs.entered

	// Let the remaining requests reach the queue ahead of the shutdown.
	time.Sleep(50 * time.Millisecond)

	statsCh := make(chan DirStats, 1)
	go func() { statsCh <- coord.Shutdown() }()
	close(fs.gate)

	stats := <-statsCh
	for range 3 {
		if err := <-errs; err != nil {
			t.Errorf("Ensure() error = %v", err)
		}
	}
	if stats.Created != 3 {
		t.Errorf("stats.Created = %d, want 3", stats.Created)
	}
}

func TestCoordinator_Backpressure(t *testing.T) {
	root := t.TempDir()
	fs := newCountingFs(afero.NewOsFs())
	fs.gate = make(chan struct{})
	fs.entered = make(chan string, 8)
	coord := StartCoordinator(fs, CoordinatorOptions{QueueCapacity: 1}, nil)

	// First request occupies the coordinator.
	first := make(chan error, 1)
	go func() {
		_, err := coord.Ensure(context.Background(), filepath.Join(root, "busy"))
		first <- err
	}()
	<-fs.entered

	// Second request fills the single queue slot.
	second := make(chan error, 1)
	go func() {
		_, err := coord.Ensure(context.Background(), filepath.Join(root, "busy"))
		second <- err
	}()
	time.Sleep(50 * time.Millisecond)

	// Third request blocks on the full queue until its context ends.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := coord.Ensure(ctx, filepath.Join(root, "blocked"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Ensure() on full queue error = %v, want %v", err, context.DeadlineExceeded)
	}

	close(fs.gate)
	if err := <-first; err != nil {
		t.Errorf("first Ensure() error = %v", err)
	}
	if err := <-second; err != nil {
		t.Errorf("second Ensure() error = %v", err)
	}
	stats := coord.Shutdown()
	if fs.mkdirCount(filepath.Join(root, "busy")) != 1 {
		t.Errorf("busy directory created %d times, want 1", fs.mkdirCount(filepath.Join(root, "busy")))
	}
	if stats.Cached != 1 {
		t.Errorf("stats.Cached = %d, want 1", stats.Cached)
	}
}

func TestHowString(t *testing.T) {
	tests := []struct {
		how  How
		want string
	}{
		{Cached, "cached"},
		{Existing, "existing"},
		{Created, "created"},
		{How(9), "How(9)"},
	}
	for _, tt := range tests {
		if got := tt.how.String(); got != tt.want {
			t.Errorf("How(%d).String() = %q, want %q", int(tt.how), got, tt.want)
		}
	}
}
