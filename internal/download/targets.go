package download

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// IndexName returns the 1-based file name of asset i out of count, zero
// padded to the width of count: 12 pages give 01..12, 100 give 001..100.
func IndexName(i, count int) string {
	width := len(strconv.Itoa(count))
	return fmt.Sprintf("%0*d", width, i+1)
}

// ChapterTargets builds one Target per page of chapter, saved under
// mangaDir in the chapter's folder.
func ChapterTargets(chapter *model.Chapter, mangaDir string) []Target {
	dir := model.ChapterFolder(mangaDir, chapter.ChapterMetadata)
	targets := make([]Target, len(chapter.Images))
	for i, img := range chapter.Images {
		targets[i] = Target{
			Alias:        chapter.BaseURL,
			RemotePath:   img.RemotePath,
			ExpectedHash: img.Hash,
			LocalPath:    filepath.Join(dir, IndexName(i, len(chapter.Images))),
		}
	}
	return targets
}

// CoverTarget builds the Target of a volume cover. process may be nil.
func CoverTarget(cover model.CoverArt, mangaDir string, process ProcessFunc) Target {
	return Target{
		Alias:      http.AliasContent,
		RemotePath: cover.RemotePath(),
		LocalPath:  filepath.Join(model.CoverFolder(mangaDir, cover), "cover"),
		Process:    process,
	}
}
