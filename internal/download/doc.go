// Package download provides the download orchestration logic for
// fetching chapters and covers from MangaDex.
//
// # Pipeline
//
// Pipeline handles a single asset:
//
//  1. Register the image server on first use
//  2. Create the destination directory
//  3. Fetch the bytes through the rate-limited client
//  4. Derive the file extension from the Content-Type
//  5. Verify the SHA-256 embedded in the image filename
//  6. Optionally post-process (covers) and write the file
//
// ChapterTargets and CoverTarget build the targets; page files are named
// by index, zero padded to the width of the page count.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Parse the manga URL
//  2. Fetch manga metadata, the chapter feed and covers
//  3. Select one chapter per (volume, chapter)
//  4. Resolve each chapter's image server and download its pages
//  5. Download covers
//  6. Save the metadata sidecar
//
// # Basic Usage
//
//	manager, err := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err = manager.Initialize(ctx, "https://mangadex.org/title/<uuid>")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.StartDownloads(ctx)
//
// # Errors
//
// Downloads run one after another and the first failure aborts the run.
// Integrity and content type failures match ErrIntegrity and
// ErrContentType with errors.Is.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// GetProgress returns chapter and file counters for polling UIs.
package download
