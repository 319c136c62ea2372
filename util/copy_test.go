package util

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestCopyFile(t *testing.T) {
	fs := afero.NewOsFs()
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "report.csv")
	content := []byte("a,b,c\n1,2,3\n")
	if err := os.WriteFile(src, content, 0640); err != nil {
		t.Fatal(err)
	}

	dstDir := filepath.Join(tmpDir, "csv")
	if err := os.Mkdir(dstDir, 0755); err != nil {
		t.Fatal(err)
	}

	for _, copyFn := range []struct {
		name string
		fn   func(afero.Fs, string, string) (int64, error)
	}{
		{"plain", CopyFile},
		{"verified", CopyFileVerified},
	} {
		t.Run(copyFn.name, func(t *testing.T) {
			dst := filepath.Join(dstDir, copyFn.name+".csv")
			n, err := copyFn.fn(fs, src, dst)
			if err != nil {
				t.Fatalf("copy error = %v", err)
			}
			if n != int64(len(content)) {
				t.Errorf("copy wrote %d bytes, want %d", n, len(content))
			}
			got, err := os.ReadFile(dst)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, content) {
				t.Errorf("copied content = %q, want %q", got, content)
			}
			info, err := os.Stat(dst)
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != 0640 {
				t.Errorf("copied mode = %v, want %v", info.Mode().Perm(), os.FileMode(0640))
			}
		})
	}
}

func TestCopyFile_OverwritesExisting(t *testing.T) {
	fs := afero.NewOsFs()
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "a.txt")
	dst := filepath.Join(tmpDir, "b.txt")
	os.WriteFile(src, []byte("new"), 0644)
	os.WriteFile(dst, []byte("much longer old content"), 0644)

	if _, err := CopyFile(fs, src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new" {
		t.Errorf("CopyFile() left %q, want %q", got, "new")
	}
}

func TestCopyFile_Errors(t *testing.T) {
	fs := afero.NewOsFs()
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "a.txt")
	os.WriteFile(src, []byte("data"), 0644)

	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr error
	}{
		{
			name:    "missing source",
			src:     filepath.Join(tmpDir, "missing.txt"),
			dst:     filepath.Join(tmpDir, "out.txt"),
			wantErr: os.ErrNotExist,
		},
		{
			name:    "source is directory",
			src:     tmpDir,
			dst:     filepath.Join(tmpDir, "out.txt"),
			wantErr: ErrExpectedFile,
		},
		{
			name:    "destination parent missing",
			src:     src,
			dst:     filepath.Join(tmpDir, "nope", "a.txt"),
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CopyFile(fs, tt.src, tt.dst)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CopyFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCopyFile_ReadOnlyDestination(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.txt")
	os.WriteFile(src, []byte("data"), 0644)

	fs := afero.NewReadOnlyFs(afero.NewOsFs())
	if _, err := CopyFileVerified(fs, src, filepath.Join(tmpDir, "b.txt")); err == nil {
		t.Fatal("CopyFileVerified() on read-only fs succeeded, want error")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "b.txt")); !os.IsNotExist(err) {
		t.Errorf("destination exists after failed copy: %v", err)
	}
}
