package model

import (
	"strconv"
	"strings"
)

// ChapterMetadata is one entry of a manga's chapter feed.
//
// Several entries may describe the same logical chapter (same volume and
// chapter number) when more than one scanlation group published it; see
// SelectChapters.
type ChapterMetadata struct {
	// ID is the MangaDex chapter UUID.
	ID string

	// Volume and Chapter are the numbers as published. Either may be empty.
	Volume  string
	Chapter string

	// Title is the chapter title, if any.
	Title string

	// Language is the translated language code.
	Language string

	// Group is the name of the scanlation group. Empty if unknown.
	Group string

	// Pages is the page count announced by the feed.
	Pages int
}

// Key identifies the logical chapter independent of the group.
func (c ChapterMetadata) Key() ChapterKey {
	return ChapterKey{Volume: c.Volume, Chapter: c.Chapter}
}

// ChapterKey is the (volume, chapter) pair chapters are deduplicated on.
type ChapterKey struct {
	Volume  string
	Chapter string
}

// Chapter is a chapter ready for download: its metadata plus the image batch
// returned by the at-home endpoint.
type Chapter struct {
	ChapterMetadata

	// BaseURL is the image server assigned to this chapter.
	BaseURL string

	// Images are the pages in reading order.
	Images []Image
}

// VolumeLabel returns "Volume N" for numeric volumes and the raw value
// otherwise.
func (c ChapterMetadata) VolumeLabel() string {
	return numberLabel("Volume", c.Volume)
}

// ChapterLabel returns "Chapter N" for numeric chapters and the raw value
// otherwise.
func (c ChapterMetadata) ChapterLabel() string {
	return numberLabel("Chapter", c.Chapter)
}

// String returns a short human readable description.
func (c ChapterMetadata) String() string {
	parts := make([]string, 0, 3)
	if v := c.VolumeLabel(); v != "" {
		parts = append(parts, v)
	}
	if ch := c.ChapterLabel(); ch != "" {
		parts = append(parts, ch)
	}
	if len(parts) == 0 {
		parts = append(parts, "Oneshot")
	}
	s := strings.Join(parts, " ")
	if c.Group != "" {
		s += " [" + c.Group + "]"
	}
	return s
}

func numberLabel(prefix, value string) string {
	if value == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return prefix + " " + strconv.FormatFloat(f, 'f', -1, 64)
	}
	return value
}
