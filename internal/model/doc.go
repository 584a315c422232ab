// Package model defines the core data structures used throughout
// the mangadex-downloader application.
//
// # Manga
//
// Manga holds the localized metadata of a title:
//
//	title, _ := manga.Title("en")     // falls back to any language
//	alts := manga.AltTitlesIn([]string{"ja", "ja-ro"})
//
// # Chapters
//
// ChapterMetadata is one feed entry. SelectChapters reduces the feed to one
// entry per (volume, chapter):
//
//	chapters := model.SelectChapters(feed, model.SelectionOptions{
//	    Language:       "en",
//	    PreferredGroup: "Some Scans",
//	    DominantGroup:  aggregate.Dominant,
//	})
//
// Chapter adds the image batch resolved for download. Each Image carries
// the SHA-256 embedded in its filename:
//
//	img, err := model.NewImage(hash, "1-4f1c...e9.png")
//	ok := img.Verify(body)
//
// # Ranges
//
// Range filters chapters and covers by volume and chapter:
//
//	ranges, _ := model.ParseRanges("1:2-3:4,5")
//	model.AnyInRange(ranges, "2", "7") // true
//
// # Folders
//
// MangaFolder, ChapterFolder and CoverFolder compute the output layout:
//
//	<out>/<title>/Volume 1/Chapter 3/01.png
//	<out>/<title>/Volume 1/cover.jpg
//	<out>/<title>/Oneshot/01.png
package model
