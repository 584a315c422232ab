package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: /manga
language: fr
metadata_file_format: yaml
retry:
  max_attempts: 9
  max_wait: 30s
intervals:
  cdn: 2s
`), 0644))
	t.Setenv("MANGADEX_LANGUAGE", "de")
	t.Setenv("MANGADEX_INTERVALS_MAIN", "1s")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/manga", s.OutputDir)
	assert.Equal(t, "de", s.Language, "environment wins over file")
	assert.Equal(t, FormatYAML, s.MetadataFileFormat)
	assert.Equal(t, 9, s.Retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, s.Retry.MaxWait)
	assert.Equal(t, 5*time.Second, s.Retry.DefaultWait, "unset nested keys keep defaults")
	assert.Equal(t, 2*time.Second, s.Intervals.CDN)
	assert.Equal(t, time.Second, s.Intervals.Main)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{"yaml", "json", "toml"} {
		t.Run(ext, func(t *testing.T) {
			s := DefaultSettings()
			s.OutputDir = "/srv/manga"
			s.PreferredGroup = "Some Scans"
			s.Range = "1:2-3"
			s.Retry.MaxWait = 90 * time.Second
			s.Intervals.ImageServer = 50 * time.Millisecond
			s.ConvertCoverArtToJPG = true

			path := filepath.Join(t.TempDir(), "nested", "mangadex-dl."+ext)
			require.NoError(t, s.Save(path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, s, loaded)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"unknown format", func(s *Settings) { s.MetadataFileFormat = "xml" }},
		{"empty language", func(s *Settings) { s.Language = "" }},
		{"no attempts", func(s *Settings) { s.Retry.MaxAttempts = 0 }},
		{"bad range", func(s *Settings) { s.Range = "one-two" }},
	}

	require.NoError(t, DefaultSettings().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestConversions(t *testing.T) {
	s := DefaultSettings()
	s.Intervals.CDN = 3 * time.Second
	s.CoverResize = true
	s.Quiet = true

	sources := s.ToSources()
	require.Len(t, sources, len(http.DefaultSources))
	for _, src := range sources {
		if src.Alias == http.AliasCDN {
			assert.Equal(t, 3*time.Second, src.Interval)
		}
	}

	assert.Equal(t, http.DefaultRetryPolicy(), s.ToRetryPolicy())
	assert.True(t, s.ToCoverOptions().Enabled())
	assert.Equal(t, "warn", s.EffectiveLogLevel())

	ranges, err := s.Ranges()
	require.NoError(t, err)
	assert.Nil(t, ranges)
}
