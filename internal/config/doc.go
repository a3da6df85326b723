// Package config loads, normalizes, and validates punchtrack configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the CLI and core
// packages need: data and project directories, workbook sheet names and
// row offsets, the fuzzy-match acceptance threshold, hand-off retention,
// and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
