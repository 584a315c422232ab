// Package metadata writes the metadata sidecar saved next to a downloaded
// manga and prints the metadata-only summary.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/config"
	ioutils "github.com/UnicodingUnicorn/mangadex-downloader-2/internal/io"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// FileName is the sidecar base name; the extension follows the format.
const FileName = "metadata"

// Metadata is the sidecar content.
type Metadata struct {
	Title       string   `json:"title" yaml:"title" toml:"title"`
	AltTitles   []string `json:"alt_titles" yaml:"alt_titles" toml:"alt_titles"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Tags        []string `json:"tags" yaml:"tags" toml:"tags"`
}

// New builds the sidecar of manga. Title, description and tags use
// language; alternative titles are kept for titleLanguages, where "all"
// keeps every one.
func New(manga *model.Manga, language string, titleLanguages []string) *Metadata {
	title, _ := manga.Title(language)
	description, _ := manga.Description(language)

	m := &Metadata{
		Title:       title,
		AltTitles:   manga.AltTitlesIn(titleLanguages),
		Description: description,
		Tags:        manga.TagsIn(language),
	}
	if m.AltTitles == nil {
		m.AltTitles = []string{}
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}

// Marshal encodes the sidecar in format (toml, json or yaml).
func (m *Metadata) Marshal(format string) ([]byte, error) {
	switch format {
	case config.FormatTOML:
		return toml.Marshal(m)
	case config.FormatJSON:
		return json.MarshalIndent(m, "", "  ")
	case config.FormatYAML:
		return yaml.Marshal(m)
	default:
		return nil, fmt.Errorf("unknown metadata file format %q", format)
	}
}

// Save writes the sidecar into dir and returns its path.
func (m *Metadata) Save(ctx context.Context, dir, format string) (string, error) {
	data, err := m.Marshal(format)
	if err != nil {
		return "", fmt.Errorf("error serialising metadata: %w", err)
	}
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName+"."+format)
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		return "", fmt.Errorf("error writing metadata file: %w", err)
	}
	return path, nil
}

// Print writes the human readable summary shown by metadata-only mode.
func Print(w io.Writer, manga *model.Manga, language string, titleLanguages []string) error {
	title, _ := manga.Title(language)
	description, _ := manga.Description(language)

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", title)
	if alts := manga.AltTitlesIn(titleLanguages); len(alts) > 0 {
		fmt.Fprintf(&b, "Alt titles: %s\n", strings.Join(alts, "; "))
	}
	fmt.Fprintf(&b, "Available languages: %s\n", strings.Join(manga.Languages, ", "))
	if tags := manga.TagsIn(language); len(tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(tags, ", "))
	}
	if description != "" {
		fmt.Fprintf(&b, "\n%s\n", description)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
