package model

import "fmt"

// Photo represents a single search result from the photo API.
//
// Photo contains the information the rest of the application needs:
//   - ID to key per-photo UI state (liked, expanded)
//   - PhotoURL for display in the grid
//   - Photographer and PhotographerURL for attribution and grouping
//   - Liked as reported by the API when the result was fetched
//
// Photos are built by the API client and never modified afterwards. A
// fresh slice of photos replaces the previous one on every search.
//
// Example:
//
//	photo := Photo{
//	    ID:           "2014422",
//	    PhotoURL:     "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?h=350",
//	    Photographer: "Joey Farina",
//	}
type Photo struct {
	// ID is the opaque identifier of the photo, unique within one result set.
	ID string

	// PhotoURL is the location of the displayable image.
	PhotoURL string

	// Photographer is the display name of the photo's author.
	Photographer string

	// PhotographerURL links to the photographer's profile.
	PhotographerURL string

	// Liked is the initial liked state as reported by the API.
	Liked bool

	// Width and Height are the original dimensions in pixels.
	Width  int
	Height int

	// AvgColor is the average colour of the photo as a hex string ("#7E7B74").
	// Empty string if the API did not report one.
	AvgColor string

	// Alt is the photo description, if available.
	Alt string

	// PageURL links to the photo's page on the provider's site.
	PageURL string

	// OriginalURL is the full resolution image location.
	// Empty string means only PhotoURL is available.
	OriginalURL string
}

// DownloadURL returns the best URL to save the photo from.
func (p Photo) DownloadURL() string {
	if p.OriginalURL != "" {
		return p.OriginalURL
	}
	return p.PhotoURL
}

// Dimensions returns "WxH", or an empty string if the size is unknown.
func (p Photo) Dimensions() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}
