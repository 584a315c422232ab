package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestManga_Title(t *testing.T) {
	m := &Manga{Titles: map[string]string{"ja-ro": "Shingeki no Kyojin", "ja": "進撃の巨人"}}

	if got, ok := m.Title("ja-ro"); !ok || got != "Shingeki no Kyojin" {
		t.Errorf("Title(ja-ro) = %q, %v", got, ok)
	}
	// Falls back to the lexically first language.
	if got, ok := m.Title("en"); !ok || got != "進撃の巨人" {
		t.Errorf("Title(en) fallback = %q, %v", got, ok)
	}
	if _, ok := (&Manga{}).Title("en"); ok {
		t.Error("Title() on a manga without titles should report false")
	}
}

func TestManga_AltTitlesIn(t *testing.T) {
	m := &Manga{AltTitles: []map[string]string{
		{"en": "Attack on Titan"},
		{"ja": "進撃の巨人"},
		{"fr": "L'Attaque des Titans"},
	}}

	tests := []struct {
		languages []string
		want      []string
	}{
		{[]string{"en"}, []string{"Attack on Titan"}},
		{[]string{"ja", "fr"}, []string{"進撃の巨人", "L'Attaque des Titans"}},
		{[]string{"all"}, []string{"Attack on Titan", "進撃の巨人", "L'Attaque des Titans"}},
		{[]string{"de"}, nil},
	}

	for _, tt := range tests {
		if got := m.AltTitlesIn(tt.languages); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AltTitlesIn(%v) = %v, want %v", tt.languages, got, tt.want)
		}
	}
}

func TestManga_HasLanguageAndTags(t *testing.T) {
	m := &Manga{
		Languages: []string{"en", "fr"},
		Tags:      []map[string]string{{"en": "Action"}, {"ja": "ドラマ"}, {"en": "Drama"}},
	}

	if !m.HasLanguage("fr") || m.HasLanguage("de") {
		t.Error("HasLanguage() mismatch")
	}
	if got := m.TagsIn("en"); !reflect.DeepEqual(got, []string{"Action", "Drama"}) {
		t.Errorf("TagsIn(en) = %v", got)
	}
}

func TestChapterMetadata_Labels(t *testing.T) {
	tests := []struct {
		volume, chapter string
		wantVolume      string
		wantChapter     string
		wantString      string
	}{
		{"2", "10.5", "Volume 2", "Chapter 10.5", "Volume 2 Chapter 10.5"},
		{"02", "7.0", "Volume 2", "Chapter 7", "Volume 2 Chapter 7"},
		{"", "3", "", "Chapter 3", "Chapter 3"},
		{"Extra", "", "Extra", "", "Extra"},
		{"", "", "", "", "Oneshot"},
	}

	for _, tt := range tests {
		c := ChapterMetadata{Volume: tt.volume, Chapter: tt.chapter}
		if got := c.VolumeLabel(); got != tt.wantVolume {
			t.Errorf("VolumeLabel(%q) = %q, want %q", tt.volume, got, tt.wantVolume)
		}
		if got := c.ChapterLabel(); got != tt.wantChapter {
			t.Errorf("ChapterLabel(%q) = %q, want %q", tt.chapter, got, tt.wantChapter)
		}
		if got := c.String(); got != tt.wantString {
			t.Errorf("String() = %q, want %q", got, tt.wantString)
		}
	}
}

func TestNewImage(t *testing.T) {
	body := []byte("page one")
	sum := sha256.Sum256(body)
	hash := hex.EncodeToString(sum[:])

	img, err := NewImage("chapterhash", "1-"+hash+".png")
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}
	if img.RemotePath != "/data/chapterhash/1-"+hash+".png" {
		t.Errorf("RemotePath = %q", img.RemotePath)
	}
	if !img.Verify(body) {
		t.Error("Verify() should accept the original bytes")
	}
	if img.Verify([]byte("tampered")) {
		t.Error("Verify() should reject different bytes")
	}
	if !HashMatches(body, img.Hash) || HashMatches(body, nil) {
		t.Error("HashMatches() should agree with Verify() and reject a missing hash")
	}

	if _, err := NewImage("chapterhash", "1-nohash.png"); !errors.Is(err, ErrHashNotFound) {
		t.Errorf("NewImage() without hash error = %v, want ErrHashNotFound", err)
	}
}

func TestFolders(t *testing.T) {
	mangaDir := MangaFolder("/out", "Fate/Zero: Side Stories")
	if mangaDir != filepath.Join("/out", "FateZero Side Stories") {
		t.Errorf("MangaFolder() = %q", mangaDir)
	}

	tests := []struct {
		chapter ChapterMetadata
		want    string
	}{
		{ChapterMetadata{Volume: "1", Chapter: "3"}, filepath.Join(mangaDir, "Volume 1", "Chapter 3")},
		{ChapterMetadata{Chapter: "3"}, filepath.Join(mangaDir, "Chapter 3")},
		{ChapterMetadata{Volume: "1"}, filepath.Join(mangaDir, "Volume 1")},
		{ChapterMetadata{}, filepath.Join(mangaDir, OneshotFolder)},
	}
	for _, tt := range tests {
		if got := ChapterFolder(mangaDir, tt.chapter); got != tt.want {
			t.Errorf("ChapterFolder(%+v) = %q, want %q", tt.chapter, got, tt.want)
		}
	}

	cover := CoverArt{MangaID: "m", Volume: "4", FileName: "c.jpg"}
	if got := CoverFolder(mangaDir, cover); got != filepath.Join(mangaDir, "Volume 4") {
		t.Errorf("CoverFolder() = %q", got)
	}
	if cover.RemotePath() != "/covers/m/c.jpg" {
		t.Errorf("RemotePath() = %q", cover.RemotePath())
	}
}

func TestFolders_StayInsideParent(t *testing.T) {
	mangaDir := filepath.Join("/out", "Title")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dot-dot volume", ChapterFolder(mangaDir, ChapterMetadata{Volume: "..", Chapter: "1"}), filepath.Join(mangaDir, "_", "Chapter 1")},
		{"dot-dot chapter", ChapterFolder(mangaDir, ChapterMetadata{Volume: "1", Chapter: ".."}), filepath.Join(mangaDir, "Volume 1", "_")},
		{"dot volume", ChapterFolder(mangaDir, ChapterMetadata{Volume: ".", Chapter: "2"}), filepath.Join(mangaDir, "_", "Chapter 2")},
		{"dot-dot cover", CoverFolder(mangaDir, CoverArt{Volume: ".."}), filepath.Join(mangaDir, "_")},
		{"dot-dot title", MangaFolder("/out", ".."), filepath.Join("/out", "_")},
		{"separator title", MangaFolder("/out", "../../etc"), filepath.Join("/out", "etc")},
		{"empty title", MangaFolder("/out", ""), filepath.Join("/out", "_")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestMangaFolder_TruncatesOnRuneBoundary(t *testing.T) {
	title := strings.Repeat("あ", 100) // 300 bytes
	name := filepath.Base(MangaFolder("/out", title))

	if len(name) > 247 {
		t.Errorf("len = %d, want <= 247", len(name))
	}
	if !utf8.ValidString(name) {
		t.Errorf("folder name %q is not valid UTF-8", name)
	}
	if name != strings.Repeat("あ", 82) {
		t.Errorf("folder name has %d bytes, want 82 whole characters", len(name))
	}

	spaced := strings.Repeat("a", 246) + " b"
	if got := filepath.Base(MangaFolder("/out", spaced)); got != strings.Repeat("a", 246) {
		t.Errorf("trailing space kept after cut: %q", got)
	}
}
