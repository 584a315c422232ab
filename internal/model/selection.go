package model

import (
	"sort"
	"strconv"
)

// SelectionOptions controls SelectChapters.
type SelectionOptions struct {
	// Language keeps only chapters translated into it. Empty keeps all.
	Language string

	// PreferredGroup wins when several groups published the same chapter.
	PreferredGroup string

	// DominantGroup is the group with the most chapters in the feed; it is
	// used when PreferredGroup is empty or absent for a chapter.
	DominantGroup string

	// Ranges restricts the selection. Empty selects everything.
	Ranges []Range
}

// SelectChapters filters chapters by language and range, then keeps exactly
// one entry per (volume, chapter).
//
// When several entries share a key the preferred group wins, then the
// dominant group, then whichever entry came first in the feed. The result
// is ordered by volume then chapter, numerically; non-numeric values sort
// after numeric ones, by string.
func SelectChapters(chapters []ChapterMetadata, opts SelectionOptions) []ChapterMetadata {
	candidates := make(map[ChapterKey][]ChapterMetadata)
	var order []ChapterKey

	for _, c := range chapters {
		if opts.Language != "" && c.Language != opts.Language {
			continue
		}
		if !AnyInRange(opts.Ranges, c.Volume, c.Chapter) {
			continue
		}
		key := c.Key()
		if _, seen := candidates[key]; !seen {
			order = append(order, key)
		}
		candidates[key] = append(candidates[key], c)
	}

	selected := make([]ChapterMetadata, 0, len(order))
	for _, key := range order {
		selected = append(selected, pick(candidates[key], opts))
	}

	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Volume != b.Volume {
			return lessNumeric(a.Volume, b.Volume)
		}
		return lessNumeric(a.Chapter, b.Chapter)
	})
	return selected
}

func pick(candidates []ChapterMetadata, opts SelectionOptions) ChapterMetadata {
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, want := range []string{opts.PreferredGroup, opts.DominantGroup} {
		if want == "" {
			continue
		}
		for _, c := range candidates {
			if c.Group == want {
				return c
			}
		}
	}
	return candidates[0]
}

func lessNumeric(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
