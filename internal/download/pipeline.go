package download

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
	ioutils "github.com/UnicodingUnicorn/mangadex-downloader-2/internal/io"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/logger"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// DefaultImageServerInterval is the request interval used for at-home image
// servers, which are registered on first use.
const DefaultImageServerInterval = 100 * time.Millisecond

// ProcessFunc post-processes a downloaded body before it is written. It
// returns the bytes to write and their extension.
type ProcessFunc func(ctx context.Context, body []byte, ext string) ([]byte, string, error)

// Target is a single asset to download.
type Target struct {
	// Alias is a registered source alias, or the base URL of an image
	// server. Base URLs are registered on first use.
	Alias string

	// RemotePath is appended to the source's base URL.
	RemotePath string

	// ExpectedHash is the SHA-256 the body must match. Nil skips the check.
	ExpectedHash []byte

	// LocalPath is the destination without extension; the extension is
	// derived from the response Content-Type.
	LocalPath string

	// Process optionally transforms the body before it is written.
	Process ProcessFunc
}

// Pipeline downloads, verifies and stores assets.
//
// Example usage:
//
//	p := download.NewPipeline(client)
//	path, err := p.Download(ctx, download.Target{
//	    Alias:        chapter.BaseURL,
//	    RemotePath:   img.RemotePath,
//	    ExpectedHash: img.Hash,
//	    LocalPath:    "/manga/Title/Volume 1/Chapter 1/01",
//	})
//	// path == "/manga/Title/Volume 1/Chapter 1/01.png"
type Pipeline struct {
	client              *http.Client
	imageServerInterval time.Duration
	log                 logrus.FieldLogger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithImageServerInterval sets the interval used for image servers.
func WithImageServerInterval(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.imageServerInterval = d
	}
}

// WithPipelineLogger sets the logger used for warnings.
func WithPipelineLogger(l logrus.FieldLogger) PipelineOption {
	return func(p *Pipeline) {
		p.log = l
	}
}

// NewPipeline creates a Pipeline that fetches through client.
func NewPipeline(client *http.Client, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		client:              client,
		imageServerInterval: DefaultImageServerInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.GetLogger()
	}
	return p
}

// Download fetches one asset and writes it to disk. It returns the path
// written.
//
// The body is verified before anything is written: a hash mismatch leaves
// the filesystem untouched apart from the parent directory.
func (p *Pipeline) Download(ctx context.Context, t Target) (string, error) {
	if strings.Contains(t.Alias, "://") {
		if err := p.client.Registry().RegisterOrIgnore(t.Alias, t.Alias, p.imageServerInterval); err != nil {
			return "", fmt.Errorf("registering image server: %w", err)
		}
	}

	if err := ioutils.EnsureParent(t.LocalPath); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", t.LocalPath, err)
	}

	resp, err := p.client.Get(ctx, t.Alias, t.RemotePath)
	if err != nil {
		return "", err
	}

	mediaType, ext, err := extensionFor(resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.RemotePath, err)
	}

	if t.ExpectedHash != nil && !model.HashMatches(resp.Body, t.ExpectedHash) {
		return "", fmt.Errorf("%s: %w", t.RemotePath, ErrHashMismatch)
	}

	if detected := mimetype.Detect(resp.Body); !detected.Is(mediaType) {
		p.log.WithFields(logrus.Fields{
			"path":     t.RemotePath,
			"declared": mediaType,
			"detected": detected.String(),
		}).Warn("content does not match declared type")
	}

	body := resp.Body
	if t.Process != nil {
		if body, ext, err = t.Process(ctx, body, ext); err != nil {
			return "", fmt.Errorf("processing %s: %w", t.RemotePath, err)
		}
	}

	path := t.LocalPath + ext
	if err := ioutils.WriteFile(ctx, path, body); err != nil {
		return "", fmt.Errorf("error saving image: %w", err)
	}
	return path, nil
}

// DownloadMany downloads targets in order. The first failure aborts the
// batch; files written before it are kept. onDone, if set, is called after
// each successful download.
func (p *Pipeline) DownloadMany(ctx context.Context, targets []Target, onDone func(i int, path string)) ([]string, error) {
	paths := make([]string, 0, len(targets))
	for i, t := range targets {
		path, err := p.Download(ctx, t)
		if err != nil {
			return paths, fmt.Errorf("asset %d/%d (%s): %w", i+1, len(targets), t.RemotePath, err)
		}
		paths = append(paths, path)
		if onDone != nil {
			onDone(i, path)
		}
	}
	return paths, nil
}

// extensionFor maps a Content-Type header to its media type and extension.
func extensionFor(contentType string) (string, string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", "", ErrNoContentType
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownMimeType, contentType)
	}

	m := mimetype.Lookup(mediaType)
	if m == nil || m.Extension() == "" {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownMimeType, mediaType)
	}
	return mediaType, m.Extension(), nil
}
