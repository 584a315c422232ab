package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/config"
)

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mangadex-dl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: ko\noutput_dir: from-file\nrange: \"1\"\n"), 0644))

	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{
		"-l", "fr",
		"--group", "Alpha",
		"--metadata-title-languages", "ja,en",
		"--metadata-file-format", "yaml",
		"--no-metadata",
		"--covers=false",
	}))

	settings, err := loadSettings(path, cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, "fr", settings.Language, "flag wins over file")
	assert.Equal(t, "from-file", settings.OutputDir, "unset flag keeps file value")
	assert.Equal(t, "1", settings.Range)
	assert.Equal(t, "Alpha", settings.PreferredGroup)
	assert.Equal(t, []string{"ja", "en"}, settings.MetadataTitleLanguages)
	assert.Equal(t, config.FormatYAML, settings.MetadataFileFormat)
	assert.True(t, settings.NoMetadata)
	assert.False(t, settings.SaveCovers)
	assert.Equal(t, 250*time.Millisecond, settings.Intervals.Main, "defaults fill the rest")
}

func TestLoadSettings_InvalidFlag(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--range", "a-b-c"}))

	_, err := loadSettings(filepath.Join(t.TempDir(), "missing.yaml"), cmd.Flags())
	assert.Error(t, err, "explicit config path must exist")

	path := filepath.Join(t.TempDir(), "mangadex-dl.toml")
	require.NoError(t, config.DefaultSettings().Save(path))
	_, err = loadSettings(path, cmd.Flags())
	assert.ErrorIs(t, err, config.ErrInvalidSettings)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "mangadex-dl.yaml")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Wrote "+path)

	settings, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), settings)

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", path})
	assert.Error(t, cmd.Execute(), "existing file is not overwritten")
}

func TestRootCmd_RequiresURL(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
