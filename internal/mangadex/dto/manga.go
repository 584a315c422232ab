package dto

import (
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// LocalizedString is a MangaDex language-keyed string map.
type LocalizedString map[string]string

// MangaResponse is the body of GET /manga/{id}.
type MangaResponse struct {
	Result string    `json:"result"`
	Data   MangaData `json:"data"`
}

// MangaData is a manga entity.
type MangaData struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes MangaAttributes `json:"attributes"`
}

// MangaAttributes holds the localized metadata of a manga.
type MangaAttributes struct {
	Title                        LocalizedString   `json:"title"`
	AltTitles                    []LocalizedString `json:"altTitles"`
	Description                  LocalizedString   `json:"description"`
	AvailableTranslatedLanguages []*string         `json:"availableTranslatedLanguages"`
	Tags                         []TagData         `json:"tags"`
}

// TagData is a tag embedded in a manga.
type TagData struct {
	ID         string `json:"id"`
	Attributes struct {
		Name LocalizedString `json:"name"`
	} `json:"attributes"`
}

// ToManga converts MangaResponse to a model.Manga.
//
// id is the requested ID; it is used when the payload omits its own.
func (r *MangaResponse) ToManga(id string) *model.Manga {
	attrs := r.Data.Attributes
	if r.Data.ID != "" {
		id = r.Data.ID
	}

	manga := &model.Manga{
		ID:           id,
		Titles:       attrs.Title,
		Descriptions: attrs.Description,
	}
	for _, alt := range attrs.AltTitles {
		manga.AltTitles = append(manga.AltTitles, alt)
	}
	// MangaDex lists null for chapters without a language.
	for _, lang := range attrs.AvailableTranslatedLanguages {
		if lang != nil {
			manga.Languages = append(manga.Languages, *lang)
		}
	}
	for _, tag := range attrs.Tags {
		manga.Tags = append(manga.Tags, tag.Attributes.Name)
	}

	return manga
}
