package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned by ParseRanges for malformed input.
var ErrInvalidRange = errors.New("invalid range string supplied")

// Position is a (volume, chapter) point. A nil Chapter means "the whole
// volume": as a start it is the first chapter, as an end the last.
type Position struct {
	Volume  float64
	Chapter *float64
}

// Range is an inclusive span of volumes and chapters.
//
// Syntax, with ":" separating volume from chapter and "-" separating start
// from end:
//
//	"2"        volume 2
//	"1-3"      volumes 1 through 3
//	"1:3"      volume 1, chapter 3
//	"1:2-3:4"  volume 1 chapter 2 through volume 3 chapter 4
//
// Bounds compare (volume, chapter) pairs in order: the start chapter only
// limits the start volume and the end chapter only limits the end volume.
// "1:2-3:4" therefore takes volume 1 from chapter 2 on, all of volume 2, and
// volume 3 up to chapter 4. It does not restrict every volume in the span to
// chapters 2 through 4; use a comma list such as "1:2-1:4,2:2-2:4" for that.
//
// Several ranges are joined with commas, see ParseRanges.
type Range struct {
	Start Position
	End   Position
}

// ParseRange parses a single range.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, "-")
	if len(parts) > 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	start, err := parsePosition(parts[0])
	if err != nil {
		return Range{}, err
	}
	end := start
	if len(parts) == 2 {
		if end, err = parsePosition(parts[1]); err != nil {
			return Range{}, err
		}
	}

	return Range{Start: start, End: end}, nil
}

// ParseRanges parses a comma separated list of ranges.
func ParseRanges(s string) ([]Range, error) {
	var ranges []Range
	for _, part := range strings.Split(s, ",") {
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parsePosition(s string) (Position, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	volume, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q: %w", ErrInvalidRange, s, err)
	}
	pos := Position{Volume: volume}

	if len(parts) == 2 {
		chapter, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return Position{}, fmt.Errorf("%w: %q: %w", ErrInvalidRange, s, err)
		}
		pos.Chapter = &chapter
	}
	return pos, nil
}

// InRange reports whether the chapter lies within r. Non-numeric volumes or
// chapters never match.
func (r Range) InRange(volume, chapter string) bool {
	v, err := strconv.ParseFloat(volume, 64)
	if err != nil {
		return false
	}
	c, err := strconv.ParseFloat(chapter, 64)
	if err != nil {
		return false
	}

	if v < r.Start.Volume || v > r.End.Volume {
		return false
	}
	if v == r.Start.Volume && r.Start.Chapter != nil && c < *r.Start.Chapter {
		return false
	}
	if v == r.End.Volume && r.End.Chapter != nil && c > *r.End.Chapter {
		return false
	}
	return true
}

// InVolumeRange reports whether volume is touched by r. Used for covers.
func (r Range) InVolumeRange(volume string) bool {
	v, err := strconv.ParseFloat(volume, 64)
	if err != nil {
		return false
	}
	return v >= r.Start.Volume && v <= r.End.Volume
}

// AnyInRange reports whether any of ranges contains the chapter. An empty
// list matches everything.
func AnyInRange(ranges []Range, volume, chapter string) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, r := range ranges {
		if r.InRange(volume, chapter) {
			return true
		}
	}
	return false
}

// AnyInVolumeRange is AnyInRange for covers.
func AnyInVolumeRange(ranges []Range, volume string) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, r := range ranges {
		if r.InVolumeRange(volume) {
			return true
		}
	}
	return false
}
