package mangadex

import (
	"context"
	"fmt"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
)

// Page is a MangaDex collection response.
type Page[T any] struct {
	Result string `json:"result"`
	Data   []T    `json:"data"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Total  int    `json:"total"`
}

// Aggregate accumulates items across pages together with per-group counts.
//
// Dominant is the group with the highest count seen so far. Only a strictly
// greater count replaces it, so on a tie the group that reached the count
// first is kept.
type Aggregate[T any] struct {
	Items       []T
	GroupCounts map[string]int
	Dominant    string

	dominantCount int
	group         func(T) string
}

// NewAggregate creates an empty Aggregate. group extracts the grouping key
// of an item; a nil group disables the statistics.
func NewAggregate[T any](group func(T) string) *Aggregate[T] {
	return &Aggregate[T]{
		GroupCounts: make(map[string]int),
		group:       group,
	}
}

// Add appends items and updates the group statistics.
func (a *Aggregate[T]) Add(items ...T) {
	for _, item := range items {
		a.Items = append(a.Items, item)
		if a.group == nil {
			continue
		}

		key := a.group(item)
		a.GroupCounts[key]++
		if n := a.GroupCounts[key]; n > a.dominantCount {
			a.Dominant = key
			a.dominantCount = n
		}
	}
}

// FetchAll walks a paginated collection from offset 0 until offset+limit
// reaches the total announced by the server. The next page is requested at
// the offset plus limit the server reports for the current one; a page that
// does not move past the requested offset is an ErrUnexpectedResponse.
//
// pathFor builds the request path for an offset. convert maps a wire item to
// T; items it rejects are skipped. Every page is folded into the returned
// Aggregate as it arrives.
//
// Example:
//
//	agg, err := FetchAll(ctx, client, http.AliasMain,
//	    func(offset int) string { return fmt.Sprintf("/manga/%s/feed?offset=%d", id, offset) },
//	    func(c dto.ChapterData) (model.ChapterMetadata, bool) { return c.ToChapterMetadata() },
//	    func(c model.ChapterMetadata) string { return c.Group },
//	)
func FetchAll[W, T any](
	ctx context.Context,
	c *http.Client,
	alias string,
	pathFor func(offset int) string,
	convert func(W) (T, bool),
	group func(T) string,
) (*Aggregate[T], error) {
	agg := NewAggregate(group)

	offset := 0
	for {
		path := pathFor(offset)
		page, err := http.GetJSON[Page[W]](ctx, c, alias, path)
		if err != nil {
			return nil, fmt.Errorf("fetching page at offset %d: %w", offset, err)
		}

		for _, w := range page.Data {
			if item, ok := convert(w); ok {
				agg.Add(item)
			}
		}

		next := page.Offset + page.Limit
		if next >= page.Total {
			return agg, nil
		}
		if page.Limit <= 0 || next <= offset {
			return nil, fmt.Errorf("%w: %s%s: page at offset %d with limit %d does not advance past %d of %d items",
				http.ErrUnexpectedResponse, alias, path, page.Offset, page.Limit, offset, page.Total)
		}
		offset = next
	}
}
