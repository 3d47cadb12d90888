package pexels

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pexelshttp "github.com/handiism/pexels-search/internal/http"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "page": 1,
  "per_page": 2,
  "total_results": 8000,
  "next_page": "https://api.pexels.com/v1/search/?page=2&per_page=2&query=nature",
  "photos": [
    {
      "id": 3573351,
      "width": 3066,
      "height": 3968,
      "url": "https://www.pexels.com/photo/trees-during-day-3573351/",
      "photographer": "Lukas Rodriguez",
      "photographer_url": "https://www.pexels.com/@lukas-rodriguez-1845331",
      "photographer_id": 1845331,
      "avg_color": "#374824",
      "src": {
        "original": "https://images.pexels.com/photos/3573351/pexels-photo-3573351.png",
        "large": "https://images.pexels.com/photos/3573351/pexels-photo-3573351.png?h=650",
        "medium": "https://images.pexels.com/photos/3573351/pexels-photo-3573351.png?h=350",
        "tiny": "https://images.pexels.com/photos/3573351/pexels-photo-3573351.png?h=200&w=280"
      },
      "liked": false,
      "alt": "Brown Rocks During Golden Hour"
    },
    {
      "id": 15286,
      "width": 2500,
      "height": 1667,
      "url": "https://www.pexels.com/photo/person-walking-15286/",
      "photographer": "Luis del Río",
      "photographer_url": "https://www.pexels.com/@luisdelrio",
      "photographer_id": 1081,
      "avg_color": "#283419",
      "src": {
        "original": "https://images.pexels.com/photos/15286/pexels-photo.jpg",
        "medium": "https://images.pexels.com/photos/15286/pexels-photo.jpg?h=350"
      },
      "liked": true,
      "alt": "Person Walking Between Green Forest Trees"
    }
  ]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Search(t *testing.T) {
	var gotPath, gotQuery, gotPerPage, gotPage, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotPerPage = r.URL.Query().Get("per_page")
		gotPage = r.URL.Query().Get("page")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "key-123", BaseURL: srv.URL + "/", PerPage: 2}, discardLogger())

	photos, err := client.Search(context.Background(), "nature walk")
	require.NoError(t, err)

	require.Equal(t, "/search", gotPath)
	require.Equal(t, "nature walk", gotQuery)
	require.Equal(t, "2", gotPerPage)
	require.Equal(t, "1", gotPage)
	require.Equal(t, "key-123", gotAuth)

	require.Len(t, photos, 2)

	first := photos[0]
	require.Equal(t, "3573351", first.ID)
	require.Equal(t, "https://images.pexels.com/photos/3573351/pexels-photo-3573351.png?h=350", first.PhotoURL)
	require.Equal(t, "Lukas Rodriguez", first.Photographer)
	require.Equal(t, "https://www.pexels.com/@lukas-rodriguez-1845331", first.PhotographerURL)
	require.False(t, first.Liked)
	require.Equal(t, "#374824", first.AvgColor)
	require.Equal(t, 3066, first.Width)
	require.Equal(t, "https://images.pexels.com/photos/3573351/pexels-photo-3573351.png", first.OriginalURL)

	require.Equal(t, "15286", photos[1].ID)
	require.True(t, photos[1].Liked)
}

func TestClient_PhotoSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, PhotoSize: "tiny"}, discardLogger())

	photos, err := client.Search(context.Background(), "nature")
	require.NoError(t, err)
	require.Equal(t, "https://images.pexels.com/photos/3573351/pexels-photo-3573351.png?h=200&w=280", photos[0].PhotoURL)
	// No tiny size on the second photo, so medium is used.
	require.Equal(t, "https://images.pexels.com/photos/15286/pexels-photo.jpg?h=350", photos[1].PhotoURL)
}

func TestClient_Curated(t *testing.T) {
	var gotPath string
	var hasQuery bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		hasQuery = r.URL.Query().Has("query")
		w.Write([]byte(`{"page":1,"photos":[]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, discardLogger())

	photos, err := client.Curated(context.Background())
	require.NoError(t, err)
	require.Empty(t, photos)
	require.Equal(t, "/curated", gotPath)
	require.False(t, hasQuery)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":401,"code":"Unauthorized"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: srv.URL}, discardLogger())

	_, err := client.Search(context.Background(), "cats")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Unauthorized", apiErr.Message)
	require.Equal(t, "pexels: HTTP 401: Unauthorized", apiErr.Error())
}

func TestClient_MissingAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0"}, discardLogger())

	_, err := client.Search(context.Background(), "cats")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_ClampsPerPage(t *testing.T) {
	client := NewClient(Config{APIKey: "k", PerPage: 500}, nil)
	require.Equal(t, MaxPerPage, client.cfg.PerPage)
	require.Equal(t, DefaultBaseURL, client.cfg.BaseURL)
	require.Equal(t, "medium", client.cfg.PhotoSize)
}

func TestNewClient_DoesNotWriteCallerOptions(t *testing.T) {
	var auths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	opts := make([]pexelshttp.Option, 1, 4)
	opts[0] = pexelshttp.WithTimeout(5 * time.Second)

	one := NewClient(Config{APIKey: "one", BaseURL: srv.URL}, discardLogger(), opts...)
	two := NewClient(Config{APIKey: "two", BaseURL: srv.URL}, discardLogger(), opts...)

	require.Nil(t, opts[:cap(opts)][1], "spare capacity of the caller's slice was written")

	_, err := one.Search(context.Background(), "a")
	require.NoError(t, err)
	_, err = two.Search(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, auths)
}
