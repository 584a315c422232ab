package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/http"
	ioutils "github.com/UnicodingUnicorn/mangadex-downloader-2/internal/io"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/model"
)

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Metadata sidecar formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ConfigName is the base name of the config file searched for by Load.
const ConfigName = "mangadex-dl"

// EnvPrefix prefixes environment overrides, e.g. MANGADEX_OUTPUT_DIR.
const EnvPrefix = "MANGADEX"

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputDir      string `mapstructure:"output_dir"`
	Language       string `mapstructure:"language"`
	PreferredGroup string `mapstructure:"preferred_group"`
	Range          string `mapstructure:"range"`

	// Metadata settings
	MetadataTitleLanguages []string `mapstructure:"metadata_title_languages"`
	MetadataFileFormat     string   `mapstructure:"metadata_file_format"` // toml, json, yaml
	NoMetadata             bool     `mapstructure:"no_metadata"`

	// Output settings
	Quiet    bool   `mapstructure:"quiet"`
	LogLevel string `mapstructure:"log_level"`
	NoColor  bool   `mapstructure:"no_color"`

	// Request settings
	UserAgent      string           `mapstructure:"user_agent"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	Retry          RetrySettings    `mapstructure:"retry"`
	Intervals      IntervalSettings `mapstructure:"intervals"`

	// Cover art settings
	SaveCovers           bool `mapstructure:"save_covers"`
	CoverResize          bool `mapstructure:"cover_resize"`
	CoverMaxSize         int  `mapstructure:"cover_max_size"`
	ConvertCoverArtToJPG bool `mapstructure:"convert_cover_art_to_jpg"`
}

// RetrySettings bounds the HTTP 429 backoff.
type RetrySettings struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	DefaultWait time.Duration `mapstructure:"default_wait"`
}

// IntervalSettings are the minimum delays between requests per source.
type IntervalSettings struct {
	Main        time.Duration `mapstructure:"main"`
	CDN         time.Duration `mapstructure:"cdn"`
	Content     time.Duration `mapstructure:"content"`
	ImageServer time.Duration `mapstructure:"image_server"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	retry := http.DefaultRetryPolicy()
	return &Settings{
		OutputDir: "output",
		Language:  "en",

		MetadataTitleLanguages: []string{"ja-ro", "ja", "en"},
		MetadataFileFormat:     FormatTOML,

		LogLevel: "info",

		UserAgent:      http.DefaultUserAgent,
		RequestTimeout: 60 * time.Second,
		Retry: RetrySettings{
			MaxAttempts: retry.MaxAttempts,
			MaxWait:     retry.MaxWait,
			DefaultWait: retry.DefaultWait,
		},
		Intervals: IntervalSettings{
			Main:        250 * time.Millisecond,
			CDN:         1500 * time.Millisecond,
			Content:     250 * time.Millisecond,
			ImageServer: 100 * time.Millisecond,
		},

		SaveCovers:   true,
		CoverMaxSize: 1000,
	}
}

// NewViper builds the layered configuration: defaults, then the config
// file, then MANGADEX_* environment variables. Flags may be bound on top by
// the caller before calling FromViper.
//
// If path is empty, mangadex-dl.{yaml,json,toml} is searched for in the
// working directory and in $HOME/.config/mangadex-dl; a missing file is not
// an error. An explicit path must exist.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()

	for key, value := range DefaultSettings().toMap() {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

// FromViper decodes and validates settings.
func FromViper(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads settings from path (or the default search locations when path
// is empty) with environment overrides applied.
func Load(path string) (*Settings, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Save writes settings to a file. The format follows the extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	v := viper.New()
	for key, value := range s.toMap() {
		v.Set(key, value)
	}
	return v.WriteConfigAs(path)
}

// Validate checks values that cannot be defaulted.
func (s *Settings) Validate() error {
	switch s.MetadataFileFormat {
	case FormatTOML, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: unknown metadata file format %q", ErrInvalidSettings, s.MetadataFileFormat)
	}
	if s.Language == "" {
		return fmt.Errorf("%w: language must not be empty", ErrInvalidSettings)
	}
	if s.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry.max_attempts must be at least 1", ErrInvalidSettings)
	}
	if s.Range != "" {
		if _, err := model.ParseRanges(s.Range); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	return nil
}

// Ranges parses the configured chapter range. Empty means everything.
func (s *Settings) Ranges() ([]model.Range, error) {
	if s.Range == "" {
		return nil, nil
	}
	return model.ParseRanges(s.Range)
}

// EffectiveLogLevel returns the log level, raised to warn in quiet mode.
func (s *Settings) EffectiveLogLevel() string {
	if s.Quiet {
		return "warn"
	}
	return s.LogLevel
}

// ToRetryPolicy converts settings to http.RetryPolicy.
func (s *Settings) ToRetryPolicy() http.RetryPolicy {
	return http.RetryPolicy{
		MaxAttempts: s.Retry.MaxAttempts,
		MaxWait:     s.Retry.MaxWait,
		DefaultWait: s.Retry.DefaultWait,
	}
}

// ToSources converts settings to the static request sources.
func (s *Settings) ToSources() []http.Source {
	sources := make([]http.Source, 0, len(http.DefaultSources))
	for _, src := range http.DefaultSources {
		switch src.Alias {
		case http.AliasMain:
			src.Interval = s.Intervals.Main
		case http.AliasCDN:
			src.Interval = s.Intervals.CDN
		case http.AliasContent:
			src.Interval = s.Intervals.Content
		}
		sources = append(sources, src)
	}
	return sources
}

// ToCoverOptions converts settings to ioutils.CoverOptions.
func (s *Settings) ToCoverOptions() ioutils.CoverOptions {
	return ioutils.CoverOptions{
		Resize:        s.CoverResize,
		MaxSize:       s.CoverMaxSize,
		ConvertToJPEG: s.ConvertCoverArtToJPG,
	}
}

func (s *Settings) toMap() map[string]any {
	return map[string]any{
		"output_dir":      s.OutputDir,
		"language":        s.Language,
		"preferred_group": s.PreferredGroup,
		"range":           s.Range,

		"metadata_title_languages": s.MetadataTitleLanguages,
		"metadata_file_format":     s.MetadataFileFormat,
		"no_metadata":              s.NoMetadata,

		"quiet":     s.Quiet,
		"log_level": s.LogLevel,
		"no_color":  s.NoColor,

		"user_agent":         s.UserAgent,
		"request_timeout":    s.RequestTimeout.String(),
		"retry.max_attempts": s.Retry.MaxAttempts,
		"retry.max_wait":     s.Retry.MaxWait.String(),
		"retry.default_wait": s.Retry.DefaultWait.String(),

		"intervals.main":         s.Intervals.Main.String(),
		"intervals.cdn":          s.Intervals.CDN.String(),
		"intervals.content":      s.Intervals.Content.String(),
		"intervals.image_server": s.Intervals.ImageServer.String(),

		"save_covers":              s.SaveCovers,
		"cover_resize":             s.CoverResize,
		"cover_max_size":           s.CoverMaxSize,
		"convert_cover_art_to_jpg": s.ConvertCoverArtToJPG,
	}
}
