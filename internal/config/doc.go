// Package config loads, normalizes, and validates rcrdr configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and the job controller need: output directories, external tool binaries,
// capture/conversion settings, and workflow timing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
