// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File writing
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Cover resizing and format conversion
//
// # File Operations
//
//	err := ioutils.WriteFile(ctx, "/path/to/file.png", body)
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
// Use SanitizeFileName to strip characters that break paths:
//
//	safe := ioutils.SanitizeFileName("Fate/Zero") // Returns "FateZero"
//
// # Image Processing
//
// The ImageService handles cover art manipulation. JPEG, PNG and WebP
// input is accepted; output is always JPEG.
//
//	svc := ioutils.NewImageService()
//	out, ext, _ := svc.ProcessCover(ctx, data, ".webp", ioutils.CoverOptions{ConvertToJPEG: true})
package ioutils
