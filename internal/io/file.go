// Package ioutils provides file system utilities for the mangadex-downloader.
//
// This package contains functions for:
//   - File writing
//   - Filename sanitization
//   - Directory creation
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PlaceholderName replaces names that sanitize to nothing.
const PlaceholderName = "_"

var (
	invalidChars = regexp.MustCompile(`[\\/:|&<>\x00-\x1f\x7f]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing. A cancelled context is reported
// before anything touches the disk.
//
// Example:
//
//	err := WriteFile(ctx, "/manga/Title/Volume 1/Chapter 1/01.png", body)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName removes characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Path separators and the characters : | & < > are removed
//   - Control characters are removed
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace and dots → removed
//   - An empty result (including "." and "..") → PlaceholderName
//
// The result is always a single path element that stays inside its parent.
//
// Example:
//
//	SanitizeFileName("Fate/Zero: Part 1")   // Returns "FateZero Part 1"
//	SanitizeFileName("  Black & White  ")    // Returns "Black White"
//	SanitizeFileName("..")                   // Returns "_"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")
	return TrimFileName(name)
}

// TrimFileName strips the leading and trailing spaces and dots Windows does
// not allow, falling back to PlaceholderName when nothing is left.
func TrimFileName(name string) string {
	name = strings.Trim(name, " .")
	if name == "" {
		return PlaceholderName
	}
	return name
}

// TruncateFileName shortens name to at most maxBytes without splitting a
// UTF-8 sequence, then trims it again.
func TruncateFileName(name string, maxBytes int) string {
	if len(name) <= maxBytes {
		return name
	}
	n := maxBytes
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return TrimFileName(name[:n])
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/manga/Title/Volume 1")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// EnsureParent creates the directory that will hold path.
func EnsureParent(path string) error {
	return EnsureDir(filepath.Dir(path))
}
