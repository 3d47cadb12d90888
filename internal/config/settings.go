package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/handiism/pexels-search/internal/download"
	"github.com/handiism/pexels-search/internal/http"
	"github.com/handiism/pexels-search/internal/pexels"
	"github.com/pelletier/go-toml/v2"
)

// Settings holds all configuration options.
type Settings struct {
	// API settings
	APIKey     string `json:"api_key" toml:"api_key" env:"PEXELS_API_KEY"`
	BaseURL    string `json:"base_url" toml:"base_url" env:"PEXELS_BASE_URL"`
	PerPage    int    `json:"per_page" toml:"per_page" env:"PEXELS_PER_PAGE"`
	PhotoSize  string `json:"photo_size" toml:"photo_size" env:"PEXELS_PHOTO_SIZE"` // original, large2x, large, medium, small, portrait, landscape, tiny
	TimeoutSec int    `json:"timeout_seconds" toml:"timeout_seconds" env:"PEXELS_TIMEOUT_SECONDS"`
	UserAgent  string `json:"user_agent" toml:"user_agent" env:"PEXELS_USER_AGENT"`

	// Download settings
	DownloadsPath          string `json:"downloads_path" toml:"downloads_path" env:"PEXELS_DOWNLOADS_PATH"`
	FileNameFormat         string `json:"file_name_format" toml:"file_name_format"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads" toml:"max_concurrent_downloads"`
	ResizeOnDownload       bool   `json:"resize_on_download" toml:"resize_on_download"`
	MaxImageSize           int    `json:"max_image_size" toml:"max_image_size"`

	// UI settings
	GridColumns    int `json:"grid_columns" toml:"grid_columns"`
	PreviewColumns int `json:"preview_columns" toml:"preview_columns"`

	// Logging
	LogLevel string `json:"log_level" toml:"log_level" env:"PEXELS_LOG_LEVEL"` // debug, info, warn, error
	LogFile  string `json:"log_file" toml:"log_file" env:"PEXELS_LOG_FILE"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		BaseURL:    pexels.DefaultBaseURL,
		PerPage:    30,
		PhotoSize:  "medium",
		TimeoutSec: 30,
		UserAgent:  "pexels-search",

		DownloadsPath:          filepath.Join(homeDir, "Pictures", "Pexels", "{photographer}"),
		FileNameFormat:         "{id} {photographer}.jpg",
		MaxConcurrentDownloads: 4,
		ResizeOnDownload:       false,
		MaxImageSize:           2000,

		GridColumns:    3,
		PreviewColumns: 48,

		LogLevel: "info",
	}
}

// Load reads settings from a JSON or TOML file (chosen by extension),
// then applies environment overrides.
//
// A missing file is not an error: defaults plus environment are returned.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := settings.decode(path, data); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return settings, nil
}

func (s *Settings) decode(path string, data []byte) error {
	if isTOML(path) {
		return toml.Unmarshal(data, s)
	}
	return json.Unmarshal(data, s)
}

// Save writes settings to a JSON or TOML file (chosen by extension).
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "pexels-search", "config.toml")
}

// Timeout returns the HTTP timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	if s.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSec) * time.Second
}

// HTTPOptions returns the client options for API and image requests.
func (s *Settings) HTTPOptions() []http.Option {
	opts := []http.Option{http.WithTimeout(s.Timeout())}
	if s.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(s.UserAgent))
	}
	return opts
}

// ToPexelsConfig converts settings to pexels.Config.
func (s *Settings) ToPexelsConfig() pexels.Config {
	return pexels.Config{
		APIKey:    s.APIKey,
		BaseURL:   s.BaseURL,
		PerPage:   s.PerPage,
		PhotoSize: s.PhotoSize,
	}
}

// ToDownloadConfig converts settings to download.Config.
func (s *Settings) ToDownloadConfig() download.Config {
	maxSize := 0
	if s.ResizeOnDownload {
		maxSize = s.MaxImageSize
	}
	return download.Config{
		DownloadsPath:  s.DownloadsPath,
		FileNameFormat: s.FileNameFormat,
		MaxConcurrent:  s.MaxConcurrentDownloads,
		MaxImageSize:   maxSize,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
