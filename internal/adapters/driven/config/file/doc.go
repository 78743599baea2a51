// Package file provides file-based configuration and prompt storage.
// Configuration lives in a TOML file; prompts are plain-text files the
// user can edit, seeded from embedded defaults.
package file
