package download

import (
	"bytes"
	"context"
	"crypto/sha256"
	"image"
	"image/png"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/logger"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func hashOf(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

type asset struct {
	contentType string
	body        []byte
}

// assetServer serves fixed assets by path and records requested paths.
type assetServer struct {
	mu     sync.Mutex
	assets map[string]asset
	hits   []string
}

func (s *assetServer) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	s.mu.Lock()
	s.hits = append(s.hits, r.URL.Path)
	a, ok := s.assets[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		nethttp.NotFound(w, r)
		return
	}
	if a.contentType == "" {
		w.Header()["Content-Type"] = nil
	} else {
		w.Header().Set("Content-Type", a.contentType)
	}
	_, _ = w.Write(a.body)
}

func newTestPipeline(t *testing.T, assets map[string]asset, opts ...PipelineOption) (*Pipeline, *assetServer, string) {
	t.Helper()
	as := &assetServer{assets: assets}
	srv := httptest.NewServer(as)
	t.Cleanup(srv.Close)

	reg := http.NewRegistry()
	require.NoError(t, reg.Register(http.AliasContent, srv.URL, 0))
	client := http.NewClient(reg, http.WithLogger(logger.Discard()))

	opts = append([]PipelineOption{WithImageServerInterval(0), WithPipelineLogger(logger.Discard())}, opts...)
	return NewPipeline(client, opts...), as, srv.URL
}

func TestPipeline_Download(t *testing.T) {
	page := pngBytes(t)
	p, _, base := newTestPipeline(t, map[string]asset{
		"/data/h/1.png": {contentType: "image/png", body: page},
	})

	local := filepath.Join(t.TempDir(), "Title", "Volume 1", "Chapter 1", "01")
	path, err := p.Download(context.Background(), Target{
		Alias:        base,
		RemotePath:   "/data/h/1.png",
		ExpectedHash: hashOf(page),
		LocalPath:    local,
	})
	require.NoError(t, err)
	assert.Equal(t, local+".png", path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, page, written)

	_, ok := p.client.Registry().Resolve(base)
	assert.True(t, ok, "image server registered on first use")
}

func TestPipeline_Download_Failures(t *testing.T) {
	page := pngBytes(t)
	p, _, _ := newTestPipeline(t, map[string]asset{
		"/png":       {contentType: "image/png", body: page},
		"/untyped":   {body: page},
		"/unknown":   {contentType: "application/x-made-up", body: page},
		"/malformed": {contentType: "image/", body: page},
	})

	tests := []struct {
		name    string
		path    string
		hash    []byte
		wantErr error
	}{
		{name: "hash mismatch", path: "/png", hash: hashOf([]byte("other")), wantErr: ErrHashMismatch},
		{name: "no content type", path: "/untyped", wantErr: ErrNoContentType},
		{name: "unknown mime type", path: "/unknown", wantErr: ErrUnknownMimeType},
		{name: "malformed mime type", path: "/malformed", wantErr: ErrUnknownMimeType},
		{name: "not found", path: "/missing", wantErr: http.ErrRemoteAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := p.Download(context.Background(), Target{
				Alias:        http.AliasContent,
				RemotePath:   tt.path,
				ExpectedHash: tt.hash,
				LocalPath:    filepath.Join(dir, "01"),
			})
			assert.ErrorIs(t, err, tt.wantErr)

			entries, readErr := os.ReadDir(dir)
			require.NoError(t, readErr)
			assert.Empty(t, entries, "nothing is written on failure")
		})
	}

	var err error = ErrHashMismatch
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.ErrorIs(t, ErrNoContentType, ErrContentType)
	assert.ErrorIs(t, ErrUnknownMimeType, ErrContentType)
}

func TestPipeline_Download_ContentTypeParameters(t *testing.T) {
	page := pngBytes(t)
	p, _, _ := newTestPipeline(t, map[string]asset{
		"/cover": {contentType: "image/png; charset=binary", body: page},
	})

	path, err := p.Download(context.Background(), Target{
		Alias:      http.AliasContent,
		RemotePath: "/cover",
		LocalPath:  filepath.Join(t.TempDir(), "cover"),
	})
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestPipeline_Download_SniffMismatchWarns(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	page := pngBytes(t)
	p, _, _ := newTestPipeline(t, map[string]asset{
		"/cover": {contentType: "image/jpeg", body: page},
	}, WithPipelineLogger(log))

	path, err := p.Download(context.Background(), Target{
		Alias:      http.AliasContent,
		RemotePath: "/cover",
		LocalPath:  filepath.Join(t.TempDir(), "cover"),
	})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(path), "declared type wins")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "image/png", hook.LastEntry().Data["detected"])
}

func TestPipeline_Download_Process(t *testing.T) {
	page := pngBytes(t)
	p, _, _ := newTestPipeline(t, map[string]asset{
		"/cover": {contentType: "image/png", body: page},
	})

	path, err := p.Download(context.Background(), Target{
		Alias:      http.AliasContent,
		RemotePath: "/cover",
		LocalPath:  filepath.Join(t.TempDir(), "cover"),
		Process: func(_ context.Context, body []byte, ext string) ([]byte, string, error) {
			assert.Equal(t, ".png", ext)
			return []byte("converted"), ".jpg", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(path))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "converted", string(written))
}

func TestPipeline_DownloadMany_StopsAtFirstFailure(t *testing.T) {
	page := pngBytes(t)
	p, as, _ := newTestPipeline(t, map[string]asset{
		"/1": {contentType: "image/png", body: page},
		"/2": {contentType: "image/png", body: page},
		"/3": {contentType: "image/png", body: page},
	})

	dir := t.TempDir()
	targets := []Target{
		{Alias: http.AliasContent, RemotePath: "/1", ExpectedHash: hashOf(page), LocalPath: filepath.Join(dir, "1")},
		{Alias: http.AliasContent, RemotePath: "/2", ExpectedHash: hashOf([]byte("bad")), LocalPath: filepath.Join(dir, "2")},
		{Alias: http.AliasContent, RemotePath: "/3", ExpectedHash: hashOf(page), LocalPath: filepath.Join(dir, "3")},
	}

	var done []int
	paths, err := p.DownloadMany(context.Background(), targets, func(i int, _ string) { done = append(done, i) })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.Contains(t, err.Error(), "asset 2/3 (/2)")

	assert.Equal(t, []int{0}, done)
	assert.Equal(t, []string{filepath.Join(dir, "1.png")}, paths)
	assert.FileExists(t, filepath.Join(dir, "1.png"))
	assert.NoFileExists(t, filepath.Join(dir, "2.png"))
	assert.Equal(t, []string{"/1", "/2"}, as.hits, "third asset is never requested")
}

func TestIndexName(t *testing.T) {
	tests := []struct {
		i, count int
		want     string
	}{
		{0, 9, "1"},
		{0, 12, "01"},
		{11, 12, "12"},
		{0, 100, "001"},
		{99, 100, "100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndexName(tt.i, tt.count), "IndexName(%d, %d)", tt.i, tt.count)
	}
}

func TestChapterTargets(t *testing.T) {
	images := make([]model.Image, 12)
	for i := range images {
		images[i] = model.Image{RemotePath: "/data/h/" + IndexName(i, 12) + ".png", Hash: []byte{byte(i)}}
	}
	chapter := &model.Chapter{
		ChapterMetadata: model.ChapterMetadata{Volume: "1", Chapter: "2.5"},
		BaseURL:         "https://node.example.test/token",
		Images:          images,
	}

	targets := ChapterTargets(chapter, "/out/Title")
	require.Len(t, targets, 12)
	assert.Equal(t, filepath.Join("/out/Title", "Volume 1", "Chapter 2.5", "01"), targets[0].LocalPath)
	assert.Equal(t, filepath.Join("/out/Title", "Volume 1", "Chapter 2.5", "12"), targets[11].LocalPath)
	assert.Equal(t, chapter.BaseURL, targets[3].Alias)
	assert.Equal(t, []byte{3}, targets[3].ExpectedHash)

	cover := CoverTarget(model.CoverArt{MangaID: "m", Volume: "1", FileName: "c.png"}, "/out/Title", nil)
	assert.Equal(t, http.AliasContent, cover.Alias)
	assert.Equal(t, "/covers/m/c.png", cover.RemotePath)
	assert.Equal(t, filepath.Join("/out/Title", "Volume 1", "cover"), cover.LocalPath)
	assert.Nil(t, cover.ExpectedHash)
}
