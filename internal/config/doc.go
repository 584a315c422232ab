// Package config provides configuration management for mangadex-downloader.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from YAML, JSON or TOML files via viper
//   - MANGADEX_* environment overrides
//   - Conversion to the request, selection and cover options of other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads English chapters into ./output
//	// Writes a TOML metadata sidecar
//	// 250ms between API requests, 1.5s between at-home lookups
//
// # Loading from File
//
//	settings, err := config.Load("")                 // searches for mangadex-dl.*
//	settings, err := config.Load("/path/to/conf.yaml")
//
// Nested keys are overridden from the environment with "_" separators:
//
//	MANGADEX_RETRY_MAX_ATTEMPTS=10 mangadex-dl <url>
//
// # Saving Settings
//
//	settings.OutputDir = "/manga"
//	err := settings.Save("/path/to/mangadex-dl.toml")
//
// # Configuration Options
//
// Settings includes options for:
//   - Output directory, language, preferred group and chapter range
//   - Metadata sidecar format and title languages
//   - Retry behavior and per-source request intervals
//   - Cover art handling
package config
