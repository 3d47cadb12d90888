// Package config provides configuration management for pexels-search.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Environment variable overrides (PEXELS_API_KEY and friends)
//   - Default configuration values
//   - Conversion to pexels.Config and download.Config for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// 30 results per page, medium sized photos
//	// Downloads to ~/Pictures/Pexels/{photographer}
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // Malformed file or environment
//	}
//
// The file format follows the extension: ".toml" is TOML, anything else
// is JSON. A missing file yields the defaults. Environment variables are
// applied last, so PEXELS_API_KEY always wins over the file.
//
// # Saving Settings
//
//	settings.PerPage = 60
//	err := settings.Save("/path/to/config.toml")
package config
