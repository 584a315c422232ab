package mangadex

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/mangadex/dto"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

var (
	// ErrLanguageNotAvailable is returned when a manga has no chapters in
	// the requested language.
	ErrLanguageNotAvailable = errors.New("specified language is not available")

	// ErrTitleNotAvailable is returned when a manga has no title at all.
	ErrTitleNotAvailable = errors.New("no title is available")
)

// API is the MangaDex facade: metadata lookups and at-home resolution on top
// of the rate-limited client.
//
// Example usage:
//
//	api := mangadex.NewAPI(http.NewClient(http.DefaultRegistry()))
//
//	manga, err := api.Manga(ctx, id)
//	feed, err := api.ChapterFeed(ctx, manga.ID)
//	chapters := model.SelectChapters(feed.Items, model.SelectionOptions{
//	    Language:      "en",
//	    DominantGroup: feed.Dominant,
//	})
type API struct {
	client *http.Client
}

// NewAPI creates an API using client for every request.
func NewAPI(client *http.Client) *API {
	return &API{client: client}
}

// Manga fetches the metadata of a manga.
func (a *API) Manga(ctx context.Context, id string) (*model.Manga, error) {
	resp, err := http.GetJSON[dto.MangaResponse](ctx, a.client, http.AliasMain, "/manga/"+id)
	if err != nil {
		return nil, fmt.Errorf("fetching manga %s: %w", id, err)
	}
	return resp.ToManga(id), nil
}

// ChapterFeed fetches every chapter of a manga, in every language, with the
// scanlation group expanded. The aggregate's Dominant is the group that
// published the most chapters.
func (a *API) ChapterFeed(ctx context.Context, mangaID string) (*Aggregate[model.ChapterMetadata], error) {
	agg, err := FetchAll(ctx, a.client, http.AliasMain,
		func(offset int) string {
			return fmt.Sprintf("/manga/%s/feed?offset=%d&includes[]=%s", mangaID, offset, dto.RelationshipScanlationGroup)
		},
		func(c dto.ChapterData) (model.ChapterMetadata, bool) { return c.ToChapterMetadata() },
		func(c model.ChapterMetadata) string { return c.Group },
	)
	if err != nil {
		return nil, fmt.Errorf("fetching chapter feed of %s: %w", mangaID, err)
	}
	return agg, nil
}

// Covers fetches the volume covers of a manga.
func (a *API) Covers(ctx context.Context, mangaID string) ([]model.CoverArt, error) {
	agg, err := FetchAll(ctx, a.client, http.AliasMain,
		func(offset int) string {
			return fmt.Sprintf("/cover?manga[]=%s&offset=%d", mangaID, offset)
		},
		func(c dto.CoverData) (model.CoverArt, bool) { return c.ToCoverArt(mangaID) },
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching covers of %s: %w", mangaID, err)
	}
	return agg.Items, nil
}

// Chapter resolves the image server and page list of a chapter.
//
// The at-home base URL carries a short-lived token, so chapters should be
// resolved right before their pages are downloaded.
func (a *API) Chapter(ctx context.Context, meta model.ChapterMetadata) (*model.Chapter, error) {
	resp, err := http.GetJSON[dto.AtHomeResponse](ctx, a.client, http.AliasCDN, "/at-home/server/"+meta.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving images of chapter %s: %w", meta.ID, err)
	}

	chapter, err := resp.ToChapter(meta)
	if err != nil {
		return nil, fmt.Errorf("resolving images of chapter %s: %w", meta.ID, err)
	}
	return chapter, nil
}
