package dto

import (
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// RelationshipScanlationGroup is the relationship type naming the group that
// published a chapter.
const RelationshipScanlationGroup = "scanlation_group"

// ChapterData is one entry of GET /manga/{id}/feed.
type ChapterData struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Attributes    ChapterAttributes `json:"attributes"`
	Relationships []Relationship    `json:"relationships"`
}

// ChapterAttributes holds the numbering of a chapter. Every field may be
// null.
type ChapterAttributes struct {
	Volume             *string `json:"volume"`
	Chapter            *string `json:"chapter"`
	Title              *string `json:"title"`
	TranslatedLanguage *string `json:"translatedLanguage"`
	Pages              int     `json:"pages"`
}

// Relationship links an entity to another. Attributes is only present when
// the relationship was expanded with includes[].
type Relationship struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Attributes *RelationshipAttributes `json:"attributes,omitempty"`
}

// RelationshipAttributes is the subset of expanded attributes in use.
type RelationshipAttributes struct {
	Name *string `json:"name"`
}

// ToChapterMetadata converts ChapterData to a model.ChapterMetadata.
//
// Chapters without a translated language cannot be selected and are
// rejected.
func (c *ChapterData) ToChapterMetadata() (model.ChapterMetadata, bool) {
	if c.Attributes.TranslatedLanguage == nil {
		return model.ChapterMetadata{}, false
	}

	return model.ChapterMetadata{
		ID:       c.ID,
		Volume:   deref(c.Attributes.Volume),
		Chapter:  deref(c.Attributes.Chapter),
		Title:    deref(c.Attributes.Title),
		Language: *c.Attributes.TranslatedLanguage,
		Group:    c.groupName(),
		Pages:    c.Attributes.Pages,
	}, true
}

func (c *ChapterData) groupName() string {
	for _, r := range c.Relationships {
		if r.Type != RelationshipScanlationGroup || r.Attributes == nil {
			continue
		}
		if r.Attributes.Name != nil {
			return *r.Attributes.Name
		}
	}
	return ""
}

// AtHomeResponse is the body of GET /at-home/server/{chapterId}.
type AtHomeResponse struct {
	Result  string        `json:"result"`
	BaseURL string        `json:"baseUrl"`
	Chapter AtHomeChapter `json:"chapter"`
}

// AtHomeChapter lists the image filenames of a chapter.
type AtHomeChapter struct {
	Hash      string   `json:"hash"`
	Data      []string `json:"data"`
	DataSaver []string `json:"dataSaver"`
}

// ToChapter combines the at-home response with the chapter's metadata.
//
// Fails with model.ErrHashNotFound if a filename carries no hash.
func (r *AtHomeResponse) ToChapter(meta model.ChapterMetadata) (*model.Chapter, error) {
	chapter := &model.Chapter{
		ChapterMetadata: meta,
		BaseURL:         r.BaseURL,
		Images:          make([]model.Image, 0, len(r.Chapter.Data)),
	}
	for _, filename := range r.Chapter.Data {
		img, err := model.NewImage(r.Chapter.Hash, filename)
		if err != nil {
			return nil, err
		}
		chapter.Images = append(chapter.Images, img)
	}
	return chapter, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
