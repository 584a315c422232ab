package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// ErrHashNotFound is returned when an image filename carries no content hash.
var ErrHashNotFound = errors.New("image hash could not be found in its filename")

// MangaDex image filenames look like "1-<sha256 hex>.png".
var hashPattern = regexp.MustCompile(`[0-9a-fA-F]{64}`)

// Image is one page of a chapter: the path on the image server and the
// SHA-256 the downloaded bytes must match.
type Image struct {
	RemotePath string
	Hash       []byte
}

// NewImage builds an Image from the chapter hash and a filename of the
// at-home response.
func NewImage(chapterHash, filename string) (Image, error) {
	match := hashPattern.FindString(filename)
	if match == "" {
		return Image{}, fmt.Errorf("%w: %q", ErrHashNotFound, filename)
	}
	sum, err := hex.DecodeString(match)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %q", ErrHashNotFound, filename)
	}

	return Image{
		RemotePath: "/data/" + chapterHash + "/" + filename,
		Hash:       sum,
	}, nil
}

// Verify reports whether body hashes to the expected SHA-256.
func (i Image) Verify(body []byte) bool {
	return HashMatches(body, i.Hash)
}

// HashMatches reports whether the SHA-256 of body equals expected.
func HashMatches(body, expected []byte) bool {
	sum := sha256.Sum256(body)
	return bytes.Equal(sum[:], expected)
}
