package mangadex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidMangaID is returned when no manga ID can be parsed from the input.
var ErrInvalidMangaID = errors.New("manga id could not be parsed from the given url")

var titleURL = regexp.MustCompile(`^https?://(?:www\.)?mangadex\.org/title/([0-9a-fA-F-]+)(?:[/?#].*)?$`)

// ParseMangaID extracts the manga UUID from a title URL such as
// https://mangadex.org/title/<uuid>/<slug>. A bare UUID is accepted as is.
//
// The ID is returned in canonical lowercase form.
//
// Example:
//
//	id, err := ParseMangaID("https://mangadex.org/title/a96676e5-8ae2-425e-b549-7f15dd34a6d8/komi-san")
//	// id == "a96676e5-8ae2-425e-b549-7f15dd34a6d8"
func ParseMangaID(input string) (string, error) {
	input = strings.TrimSpace(input)

	candidate := input
	if m := titleURL.FindStringSubmatch(input); m != nil {
		candidate = m[1]
	}

	id, err := uuid.Parse(candidate)
	if err != nil || len(candidate) != 36 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMangaID, input)
	}
	return id.String(), nil
}
