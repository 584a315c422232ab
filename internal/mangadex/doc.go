// Package mangadex provides access to the MangaDex API: manga metadata,
// the paginated chapter feed and cover list, and at-home image servers.
//
// # Manga IDs
//
// ParseMangaID accepts a title URL or a bare UUID:
//
//	id, err := mangadex.ParseMangaID("https://mangadex.org/title/<uuid>/slug")
//
// # Pagination
//
// Collections are fetched with FetchAll, which walks offsets until the
// announced total is reached and folds every page into an Aggregate. The
// aggregate tracks how many items each group contributed; for chapter
// feeds this names the dominant scanlation group:
//
//	feed, err := api.ChapterFeed(ctx, id)
//	fmt.Println(feed.Dominant, feed.GroupCounts[feed.Dominant])
//
// # Rate Limits
//
// Every request goes through http.Client and therefore through the limiter
// of its source: "main" for metadata, "cdn" for at-home lookups and
// "content" for covers.
package mangadex
