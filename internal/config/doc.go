// Package config loads, normalizes, and validates tidy configuration.
//
// Settings come from a TOML file (by default ~/.config/tidy/config.toml, then
// ./tidy.toml) layered over repository defaults. A missing file is not an
// error. Command-line flags override the loaded values in the cmd package.
package config
