// Package util provides file copy and hashing primitives for tidy.
package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile = errors.New("expected file, got directory")

	// Verification errors
	ErrSizeMismatch     = errors.New("copy size mismatch")
	ErrChecksumMismatch = errors.New("copy checksum mismatch")
)
