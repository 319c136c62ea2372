// Package version provides version information and build metadata for tidy.
//
// Versions come from compile-time variables set through -ldflags when
// present, and otherwise from the module build info embedded by the Go
// toolchain:
//
//	-ldflags "-X github.com/dendrascience/tidy/version.Version=v1.0.0 -X github.com/dendrascience/tidy/version.Commit=abc1234"
//
// GetFullVersion is what `tidy --version` prints.
package version
