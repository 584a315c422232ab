package model

import (
	"sort"
)

// Manga represents a MangaDex title with its localized metadata.
//
// Localized fields are keyed by language code ("en", "ja-ro", ...), the
// way MangaDex returns them.
//
// Example:
//
//	title, ok := manga.Title("en")
//	if !manga.HasLanguage("en") {
//	    // no English chapters to download
//	}
type Manga struct {
	// ID is the MangaDex UUID of the title.
	ID string

	// Titles maps language code to the main title.
	Titles map[string]string

	// AltTitles holds alternative titles, one language map per entry.
	AltTitles []map[string]string

	// Descriptions maps language code to the synopsis.
	Descriptions map[string]string

	// Languages lists the languages chapters are available in.
	Languages []string

	// Tags holds the localized names of each tag.
	Tags []map[string]string
}

// Title returns the title in language, falling back to any other title.
// The fallback is deterministic: the lexically first language wins.
func (m *Manga) Title(language string) (string, bool) {
	return localized(m.Titles, language)
}

// Description returns the synopsis in language, falling back to any other.
func (m *Manga) Description(language string) (string, bool) {
	return localized(m.Descriptions, language)
}

// HasLanguage reports whether chapters are available in language.
func (m *Manga) HasLanguage(language string) bool {
	for _, l := range m.Languages {
		if l == language {
			return true
		}
	}
	return false
}

// AltTitlesIn returns alternative titles whose language is listed in
// languages, in the order MangaDex returned them. The special language
// "all" selects every alternative title.
func (m *Manga) AltTitlesIn(languages []string) []string {
	all := false
	want := make(map[string]bool, len(languages))
	for _, l := range languages {
		if l == "all" {
			all = true
		}
		want[l] = true
	}

	var titles []string
	for _, entry := range m.AltTitles {
		for _, lang := range sortedKeys(entry) {
			if all || want[lang] {
				titles = append(titles, entry[lang])
			}
		}
	}
	return titles
}

// TagsIn returns tag names in language; tags without that language are
// skipped.
func (m *Manga) TagsIn(language string) []string {
	var tags []string
	for _, t := range m.Tags {
		if name, ok := t[language]; ok {
			tags = append(tags, name)
		}
	}
	return tags
}

func localized(values map[string]string, language string) (string, bool) {
	if v, ok := values[language]; ok {
		return v, true
	}
	keys := sortedKeys(values)
	if len(keys) == 0 {
		return "", false
	}
	return values[keys[0]], true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
