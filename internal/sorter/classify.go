package sorter

import (
	"path/filepath"
	"strings"
)

// Extension returns the part of a file's base name after its last dot, with
// case preserved. A name without a dot has no extension. Neither does a
// dotfile such as ".bashrc", nor a name ending in a dot such as "notes.":
// an empty extension would put the file directly in the target root, so it
// is skipped like any other extensionless file.
func Extension(name string) (string, bool) {
	base := filepath.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return "", false
	}
	return base[i+1:], true
}

// TargetDirFor returns the directory a file belongs in: root/<extension>.
// The second result is false when the file has no extension and must be
// skipped. The returned path is cleaned so it can serve as a directory's
// identity.
func TargetDirFor(root, sourcePath string) (string, bool) {
	ext, ok := Extension(sourcePath)
	if !ok {
		return "", false
	}
	return filepath.Join(root, ext), true
}
