package dto

import (
	"strconv"
	"strings"

	"github.com/handiism/pexels-search/internal/model"
)

// JSONSearchResponse represents one page of results from /search or /curated.
type JSONSearchResponse struct {
	Page         int         `json:"page"`
	PerPage      int         `json:"per_page"`
	TotalResults int         `json:"total_results"`
	NextPage     string      `json:"next_page"`
	Photos       []JSONPhoto `json:"photos"`
}

// JSONPhoto represents a photo from the Pexels JSON API.
type JSONPhoto struct {
	ID              int64        `json:"id"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	URL             string       `json:"url"`
	Photographer    string       `json:"photographer"`
	PhotographerURL string       `json:"photographer_url"`
	PhotographerID  int64        `json:"photographer_id"`
	AvgColor        string       `json:"avg_color"`
	Src             JSONPhotoSrc `json:"src"`
	Liked           bool         `json:"liked"`
	Alt             string       `json:"alt"`
}

// JSONPhotoSrc lists the image URLs for each size Pexels serves.
type JSONPhotoSrc struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

// JSONError is the body Pexels returns with non-200 responses.
type JSONError struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Status int    `json:"status"`
}

// Message returns the most descriptive field that is set.
func (e JSONError) Message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Code
}

// BySize returns the URL for the named size ("medium", "large2x", ...).
//
// Unknown or missing sizes fall back to medium, then original.
func (s JSONPhotoSrc) BySize(size string) string {
	var url string
	switch strings.ToLower(size) {
	case "original":
		url = s.Original
	case "large2x":
		url = s.Large2x
	case "large":
		url = s.Large
	case "medium":
		url = s.Medium
	case "small":
		url = s.Small
	case "portrait":
		url = s.Portrait
	case "landscape":
		url = s.Landscape
	case "tiny":
		url = s.Tiny
	}

	if url == "" {
		url = s.Medium
	}
	if url == "" {
		url = s.Original
	}
	return url
}

// ToPhoto converts JSONPhoto to a model.Photo, displaying the given size.
func (jp *JSONPhoto) ToPhoto(size string) model.Photo {
	return model.Photo{
		ID:              strconv.FormatInt(jp.ID, 10),
		PhotoURL:        jp.Src.BySize(size),
		Photographer:    jp.Photographer,
		PhotographerURL: jp.PhotographerURL,
		Liked:           jp.Liked,
		Width:           jp.Width,
		Height:          jp.Height,
		AvgColor:        jp.AvgColor,
		Alt:             jp.Alt,
		PageURL:         jp.URL,
		OriginalURL:     jp.Src.Original,
	}
}

// ToPhotos converts every photo of the response, preserving order.
func (r *JSONSearchResponse) ToPhotos(size string) []model.Photo {
	photos := make([]model.Photo, 0, len(r.Photos))
	for i := range r.Photos {
		photos = append(photos, r.Photos[i].ToPhoto(size))
	}
	return photos
}
