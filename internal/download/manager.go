package download

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/config"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
	ioutils "github.com/UnicodingUnicorn/mangadex-downloader-2/internal/io"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/logger"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/mangadex"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/metadata"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates the download of one manga.
type Manager struct {
	settings     *config.Settings
	client       *http.Client
	api          *mangadex.API
	pipeline     *Pipeline
	imageService *ioutils.ImageService
	log          logrus.FieldLogger

	manga    *model.Manga
	title    string
	mangaDir string
	chapters []model.ChapterMetadata
	covers   []model.CoverArt

	totalChapters      int32
	downloadedChapters int32
	totalFiles         int32
	downloadedFiles    int32

	onProgress func(ProgressEvent)
}

// NewManager creates a Manager with a client built from settings.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) (*Manager, error) {
	registry, err := http.NewRegistryFromSources(settings.ToSources())
	if err != nil {
		return nil, err
	}
	client := http.NewClient(registry,
		http.WithTimeout(settings.RequestTimeout),
		http.WithUserAgent(settings.UserAgent),
		http.WithRetryPolicy(settings.ToRetryPolicy()),
	)
	return NewManagerWithClient(settings, client, onProgress), nil
}

// NewManagerWithClient creates a Manager on top of an existing client.
func NewManagerWithClient(settings *config.Settings, client *http.Client, onProgress func(ProgressEvent)) *Manager {
	log := logger.GetLogger()
	log.WithField("sources", client.Registry().Aliases()).Debug("request sources registered")
	return &Manager{
		settings: settings,
		client:   client,
		api:      mangadex.NewAPI(client),
		pipeline: NewPipeline(client,
			WithImageServerInterval(settings.Intervals.ImageServer),
			WithPipelineLogger(log),
		),
		imageService: ioutils.NewImageService(),
		log:          log,
		onProgress:   onProgress,
	}
}

// LoadManga resolves input (a title URL or UUID) and fetches the manga's
// metadata.
func (m *Manager) LoadManga(ctx context.Context, input string) (*model.Manga, error) {
	id, err := mangadex.ParseMangaID(input)
	if err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: "Retrieving metadata...", Level: LevelInfo})
	manga, err := m.api.Manga(ctx, id)
	if err != nil {
		return nil, err
	}
	m.manga = manga
	return manga, nil
}

// Initialize loads the manga and decides what to download: the chapters
// selected for the configured language, group and range, and the covers
// of the volumes in range.
func (m *Manager) Initialize(ctx context.Context, input string) error {
	manga, err := m.LoadManga(ctx, input)
	if err != nil {
		return err
	}

	language := m.settings.Language
	if !manga.HasLanguage(language) {
		return fmt.Errorf("%w: %s", mangadex.ErrLanguageNotAvailable, language)
	}
	title, ok := manga.Title(language)
	if !ok {
		return mangadex.ErrTitleNotAvailable
	}
	m.title = title
	m.mangaDir = model.MangaFolder(m.settings.OutputDir, title)

	ranges, err := m.settings.Ranges()
	if err != nil {
		return err
	}

	m.progress(ProgressEvent{Message: "Retrieving chapter metadata...", Level: LevelInfo})
	feed, err := m.api.ChapterFeed(ctx, manga.ID)
	if err != nil {
		return err
	}
	m.chapters = model.SelectChapters(feed.Items, model.SelectionOptions{
		Language:       language,
		PreferredGroup: m.settings.PreferredGroup,
		DominantGroup:  feed.Dominant,
		Ranges:         ranges,
	})
	m.log.WithFields(logrus.Fields{
		"feed":     len(feed.Items),
		"selected": len(m.chapters),
		"dominant": feed.Dominant,
	}).Debug("chapters selected")

	m.covers = nil
	if m.settings.SaveCovers {
		m.progress(ProgressEvent{Message: "Retrieving cover art metadata...", Level: LevelInfo})
		covers, err := m.api.Covers(ctx, manga.ID)
		if err != nil {
			return err
		}
		for _, c := range covers {
			if model.AnyInVolumeRange(ranges, c.Volume) {
				m.covers = append(m.covers, c)
			}
		}
	}

	m.calculateTotals()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %s: %d chapters, %d covers", title, len(m.chapters), len(m.covers)),
		Level:   LevelInfo,
	})
	return nil
}

// StartDownloads downloads the selected chapters, then the covers, then
// writes the metadata sidecar. The first failure aborts the run.
func (m *Manager) StartDownloads(ctx context.Context) error {
	if m.manga == nil {
		return fmt.Errorf("manager not initialized")
	}

	m.progress(ProgressEvent{Message: "Downloading chapters...", Level: LevelInfo})
	for _, meta := range m.chapters {
		if err := m.downloadChapter(ctx, meta); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", meta, err), Level: LevelError})
			return err
		}
	}

	if len(m.covers) > 0 {
		m.progress(ProgressEvent{Message: "Downloading cover art...", Level: LevelInfo})
	}
	for _, cover := range m.covers {
		if err := m.downloadCover(ctx, cover); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading cover of %s: %v", cover.VolumeLabel(), err), Level: LevelError})
			return err
		}
	}

	if !m.settings.NoMetadata {
		m.progress(ProgressEvent{Message: "Saving metadata...", Level: LevelInfo})
		md := metadata.New(m.manga, m.settings.Language, m.settings.MetadataTitleLanguages)
		path, err := md.Save(ctx, m.mangaDir, m.settings.MetadataFileFormat)
		if err != nil {
			return err
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", path), Level: LevelVerbose})
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded %s", m.title), Level: LevelSuccess})
	return nil
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (chaptersDone, chaptersTotal, filesDone, filesTotal int32) {
	return atomic.LoadInt32(&m.downloadedChapters), atomic.LoadInt32(&m.totalChapters),
		atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

// GetChapterNames returns the names of all selected chapters.
func (m *Manager) GetChapterNames() []string {
	names := make([]string, len(m.chapters))
	for i, c := range m.chapters {
		names[i] = c.String()
	}
	return names
}

// Title returns the title the manga is saved under.
func (m *Manager) Title() string {
	return m.title
}

// OutputDir returns the folder the manga is saved into.
func (m *Manager) OutputDir() string {
	return m.mangaDir
}

func (m *Manager) calculateTotals() {
	var files int32
	for _, c := range m.chapters {
		files += int32(c.Pages)
	}
	files += int32(len(m.covers))

	atomic.StoreInt32(&m.totalChapters, int32(len(m.chapters)))
	atomic.StoreInt32(&m.totalFiles, files)
	atomic.StoreInt32(&m.downloadedChapters, 0)
	atomic.StoreInt32(&m.downloadedFiles, 0)
}

func (m *Manager) downloadChapter(ctx context.Context, meta model.ChapterMetadata) error {
	// At-home tokens expire, so each chapter is resolved right before use.
	chapter, err := m.api.Chapter(ctx, meta)
	if err != nil {
		return err
	}

	// The feed's page count is only an estimate; correct the total.
	if diff := len(chapter.Images) - meta.Pages; diff != 0 {
		atomic.AddInt32(&m.totalFiles, int32(diff))
	}

	targets := ChapterTargets(chapter, m.mangaDir)
	_, err = m.pipeline.DownloadMany(ctx, targets, func(int, string) {
		atomic.AddInt32(&m.downloadedFiles, 1)
	})
	if err != nil {
		return err
	}

	atomic.AddInt32(&m.downloadedChapters, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s (%d pages)", meta, len(targets)), Level: LevelVerbose})
	return nil
}

func (m *Manager) downloadCover(ctx context.Context, cover model.CoverArt) error {
	var process ProcessFunc
	if opts := m.settings.ToCoverOptions(); opts.Enabled() {
		process = func(ctx context.Context, body []byte, ext string) ([]byte, string, error) {
			return m.imageService.ProcessCover(ctx, body, ext, opts)
		}
	}

	path, err := m.pipeline.Download(ctx, CoverTarget(cover, m.mangaDir, process))
	if err != nil {
		return err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded cover: %s", path), Level: LevelVerbose})
	return nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
