package sorter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// countingFs records MkdirAll and Stat calls and the peak number of
// concurrent MkdirAll calls. When gate is set, MkdirAll waits on it.
type countingFs struct {
	afero.Fs

	mu          sync.Mutex
	mkdirs      map[string]int
	stats       map[string]int
	inflight    int
	maxInflight int
	gate        chan struct{}
	entered     chan string
}

func newCountingFs(base afero.Fs) *countingFs {
	return &countingFs{
		Fs:     base,
		mkdirs: make(map[string]int),
		stats:  make(map[string]int),
	}
}

func (f *countingFs) MkdirAll(path string, perm os.FileMode) error {
	f.mu.Lock()
	f.mkdirs[path]++
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- path
	}
	if f.gate != nil {
		<-f.gate
	}
	err := f.Fs.MkdirAll(path, perm)

	f.mu.Lock()
	f.inflight--
	f.mu.Unlock()
	return err
}

func (f *countingFs) Stat(name string) (os.FileInfo, error) {
	f.mu.Lock()
	f.stats[name]++
	f.mu.Unlock()
	return f.Fs.Stat(name)
}

func (f *countingFs) mkdirCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mkdirs[path]
}

func (f *countingFs) totalMkdirs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.mkdirs {
		total += n
	}
	return total
}

var errInjected = errors.New("injected failure")

// faultyFs fails writes to destinations containing failOn and panics when a
// source containing panicOn is opened.
type faultyFs struct {
	afero.Fs
	failOn  string
	panicOn string
}

func (f *faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failOn != "" && flag&os.O_WRONLY != 0 && strings.Contains(name, f.failOn) {
		return nil, &os.PathError{Op: "open", Path: name, Err: errInjected}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	if f.panicOn != "" && strings.Contains(name, f.panicOn) {
		panic("open " + name)
	}
	return f.Fs.Open(name)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}
