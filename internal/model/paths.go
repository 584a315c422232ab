package model

import (
	"path/filepath"

	ioutils "github.com/UnicodingUnicorn/mangadex-downloader-2/internal/io"
)

// OneshotFolder holds chapters with neither a volume nor a chapter number.
const OneshotFolder = "Oneshot"

const maxFolderBytes = 247

// MangaFolder computes the folder a title is saved into.
//
// Folder names are limited to 247 bytes for Windows MAX_PATH compatibility,
// cut on a character boundary.
func MangaFolder(outputDir, title string) string {
	name := ioutils.TruncateFileName(ioutils.SanitizeFileName(title), maxFolderBytes)
	return filepath.Join(outputDir, name)
}

// ChapterFolder computes the folder a chapter's pages are saved into:
//
//	<mangaDir>/Volume 1/Chapter 3
//	<mangaDir>/Chapter 3        (no volume)
//	<mangaDir>/Volume 1         (no chapter)
//	<mangaDir>/Oneshot          (neither)
func ChapterFolder(mangaDir string, c ChapterMetadata) string {
	segments := []string{mangaDir}
	if v := c.VolumeLabel(); v != "" {
		segments = append(segments, ioutils.SanitizeFileName(v))
	}
	if ch := c.ChapterLabel(); ch != "" {
		segments = append(segments, ioutils.SanitizeFileName(ch))
	}
	if len(segments) == 1 {
		segments = append(segments, OneshotFolder)
	}
	return filepath.Join(segments...)
}

// CoverFolder computes the folder a volume cover is saved into.
func CoverFolder(mangaDir string, c CoverArt) string {
	if v := c.VolumeLabel(); v != "" {
		return filepath.Join(mangaDir, ioutils.SanitizeFileName(v))
	}
	return filepath.Join(mangaDir, OneshotFolder)
}
