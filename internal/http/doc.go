// Package http provides an HTTP client configured for photo API requests.
//
// The Client in this package handles:
//   - User-Agent and API key headers
//   - JSON response decoding
//   - File downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(http.WithHeader("Authorization", apiKey))
//
//	// Decode a JSON endpoint
//	var resp dto.JSONSearchResponse
//	err := client.GetJSON(ctx, "https://api.pexels.com/v1/search?query=cats", &resp)
//
//	// Download file with progress callback
//	client.DownloadFile(ctx, photoURL, "/path/to/photo.jpg", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Errors
//
// Non-200 responses are returned as *StatusError so callers can inspect
// the status code with errors.As.
package http
