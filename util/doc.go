// Package util provides the file-level primitives tidy builds on.
//
// Everything here works against an afero.Fs so the same code path serves the
// real filesystem and the in-test wrappers used to observe it.
//
// Key Components:
//
// Copying:
//   - CopyFile streams a source file into a destination, preserving the
//     source permission bits
//   - CopyFileVerified additionally hashes both sides with SHA-256 and removes
//     the destination when the digests or sizes disagree
//
// Hashing:
//   - GetHash and GetFileHash produce lowercase hex SHA-256 digests
//
// None of these functions create directories. Directory creation belongs to
// the sorter's coordinator, and a copy into a missing directory fails.
package util
