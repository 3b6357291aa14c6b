// Package config loads, normalizes, and validates chipedit configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts) and
// reads TOML files. Callers obtain settings through Load so downstream code
// receives canonical MIME types, log formats and clear validation errors.
package config
