package dto

import (
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// CoverData is one entry of GET /cover?manga[]={id}.
type CoverData struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes CoverAttributes `json:"attributes"`
}

// CoverAttributes describes a cover file.
type CoverAttributes struct {
	Volume   *string `json:"volume"`
	FileName string  `json:"fileName"`
	Locale   *string `json:"locale"`
}

// ToCoverArt converts CoverData to a model.CoverArt. Covers not tied to a
// volume are rejected.
func (c *CoverData) ToCoverArt(mangaID string) (model.CoverArt, bool) {
	if c.Attributes.Volume == nil || c.Attributes.FileName == "" {
		return model.CoverArt{}, false
	}
	return model.CoverArt{
		MangaID:  mangaID,
		Volume:   *c.Attributes.Volume,
		FileName: c.Attributes.FileName,
	}, true
}
