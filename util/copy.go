package util

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// CopyFile streams src to dst, truncating any existing dst. The destination
// takes the permission bits of the source. The parent of dst must already
// exist. It returns the number of bytes written.
//
// A failed copy leaves whatever was written at dst in place.
func CopyFile(fs afero.Fs, src, dst string) (int64, error) {
	in, info, err := openSource(fs, src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		return written, err
	}
	return written, out.Close()
}

// CopyFileVerified behaves like CopyFile but hashes the bytes read from src
// and the bytes written to dst. On a size or digest mismatch dst is removed
// and ErrSizeMismatch or ErrChecksumMismatch is returned.
func CopyFileVerified(fs afero.Fs, src, dst string) (int64, error) {
	in, info, err := openSource(fs, src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return written, err
	}
	if err := out.Close(); err != nil {
		return written, err
	}

	if written != info.Size() {
		_ = fs.Remove(dst)
		return written, fmt.Errorf("%w: source %d bytes, copied %d bytes", ErrSizeMismatch, info.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = fs.Remove(dst)
		return written, ErrChecksumMismatch
	}

	// The digest on disk must match the digest of what was written.
	got, err := GetFileHash(fs, dst)
	if err != nil {
		return written, err
	}
	if got != fmt.Sprintf("%x", srcHasher.Sum(nil)) {
		_ = fs.Remove(dst)
		return written, ErrChecksumMismatch
	}
	return written, nil
}

func openSource(fs afero.Fs, src string) (afero.File, os.FileInfo, error) {
	info, err := fs.Stat(src)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, ErrExpectedFile
	}
	in, err := fs.Open(src)
	if err != nil {
		return nil, nil, err
	}
	return in, info, nil
}
