package download

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/handiism/pexels-search/internal/model"
	"github.com/stretchr/testify/require"
)

func encodeImage(t *testing.T, w, h int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if asPNG {
		require.NoError(t, png.Encode(&buf, img))
	} else {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

func newImageServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	jpg := encodeImage(t, 64, 32, false)
	pngData := encodeImage(t, 64, 32, true)

	var hits int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(&hits, 1)
		switch {
		case strings.HasSuffix(r.URL.Path, ".png"):
			w.Write(pngData)
		case strings.HasSuffix(r.URL.Path, ".jpeg"):
			w.Write(jpg)
		default:
			nethttp.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestManager_PhotoPath(t *testing.T) {
	m := NewManager(Config{
		DownloadsPath:  "/photos/{photographer}",
		FileNameFormat: "{id} {photographer} {width}x{height}.jpg",
	}, nil, nil)

	got := m.PhotoPath(model.Photo{ID: "42", Photographer: "Joey: Farina", Width: 640, Height: 480})
	require.Equal(t, filepath.Join("/photos/Joey_ Farina", "42 Joey_ Farina 640x480.jpg"), got)
}

func TestManager_PhotoPath_LongNames(t *testing.T) {
	m := NewManager(Config{
		DownloadsPath:  "/photos/{photographer}",
		FileNameFormat: "{photographer}.jpg",
	}, nil, nil)

	got := m.PhotoPath(model.Photo{ID: "1", Photographer: strings.Repeat("a", 300)})
	require.Less(t, len(got), maxFilePath)
	require.Equal(t, ".jpg", filepath.Ext(got))
}

func TestManager_PhotoPath_MultiByteNames(t *testing.T) {
	m := NewManager(Config{
		DownloadsPath:  "/photos/{photographer}",
		FileNameFormat: "{photographer}.jpg",
	}, nil, nil)

	for _, name := range []string{
		strings.Repeat("é", 200),
		"a" + strings.Repeat("写真家", 100),
		"ab" + strings.Repeat("📷", 80),
	} {
		got := m.PhotoPath(model.Photo{ID: "1", Photographer: name})
		require.True(t, utf8.ValidString(got), "path %q is not valid UTF-8", got)
		require.Less(t, len(got), maxFilePath)
		require.Equal(t, ".jpg", filepath.Ext(got))
	}
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 5, "abc"},
		{"abc", 2, "ab"},
		{"aé", 2, "a"},
		{"aé", 3, "aé"},
		{"写真", 4, "写"},
		{"写真", 2, ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, truncateUTF8(tt.in, tt.n), "%q[:%d]", tt.in, tt.n)
	}
}

func TestManager_Download(t *testing.T) {
	srv, _ := newImageServer(t)
	dir := t.TempDir()

	var mu sync.Mutex
	var events []ProgressEvent
	m := NewManager(Config{
		DownloadsPath:  filepath.Join(dir, "{photographer}"),
		FileNameFormat: "{id}.jpg",
		MaxConcurrent:  2,
	}, nil, func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	photos := []model.Photo{
		{ID: "1", Photographer: "Ann", OriginalURL: srv.URL + "/1.jpeg"},
		{ID: "2", Photographer: "Bob", PhotoURL: srv.URL + "/2.jpeg"},
		{ID: "3", Photographer: "Ann", OriginalURL: srv.URL + "/3.jpeg"},
	}
	require.NoError(t, m.Download(context.Background(), photos))

	for _, p := range photos {
		data, err := os.ReadFile(m.PhotoPath(p))
		require.NoError(t, err)
		_, err = jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)
	}

	received, done, total := m.GetProgress()
	require.Positive(t, received)
	require.EqualValues(t, 3, done)
	require.EqualValues(t, 3, total)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, LevelInfo, events[0].Level)
	require.Contains(t, events[0].Message, "Downloading 3 photos")
	require.Equal(t, LevelSuccess, events[len(events)-1].Level)
}

func TestManager_Download_SkipsExisting(t *testing.T) {
	srv, hits := newImageServer(t)
	dir := t.TempDir()

	m := NewManager(Config{DownloadsPath: dir, FileNameFormat: "{id}.jpg", MaxConcurrent: 1}, nil, nil)
	photo := model.Photo{ID: "7", OriginalURL: srv.URL + "/7.jpeg"}

	require.NoError(t, os.WriteFile(m.PhotoPath(photo), []byte("already here"), 0644))
	require.NoError(t, m.Download(context.Background(), []model.Photo{photo}))

	require.EqualValues(t, 0, atomic.LoadInt32(hits))
	data, err := os.ReadFile(m.PhotoPath(photo))
	require.NoError(t, err)
	require.Equal(t, "already here", string(data))
}

func TestManager_Download_ConvertsAndResizes(t *testing.T) {
	srv, _ := newImageServer(t)
	dir := t.TempDir()

	t.Run("png saved as jpg", func(t *testing.T) {
		m := NewManager(Config{DownloadsPath: dir, FileNameFormat: "{id}.jpg"}, nil, nil)
		photo := model.Photo{ID: "png", OriginalURL: srv.URL + "/x.png"}
		require.NoError(t, m.Download(context.Background(), []model.Photo{photo}))

		data, err := os.ReadFile(m.PhotoPath(photo))
		require.NoError(t, err)
		_, err = jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)
	})

	t.Run("resized", func(t *testing.T) {
		m := NewManager(Config{DownloadsPath: dir, FileNameFormat: "{id}.jpg", MaxImageSize: 16}, nil, nil)
		photo := model.Photo{ID: "small", OriginalURL: srv.URL + "/x.jpeg"}
		require.NoError(t, m.Download(context.Background(), []model.Photo{photo}))

		data, err := os.ReadFile(m.PhotoPath(photo))
		require.NoError(t, err)
		img, err := jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, 16, img.Bounds().Dx())
		require.Equal(t, 8, img.Bounds().Dy())
	})
}

func TestManager_Download_PartialFailure(t *testing.T) {
	srv, _ := newImageServer(t)
	dir := t.TempDir()

	m := NewManager(Config{DownloadsPath: dir, FileNameFormat: "{id}.jpg", MaxConcurrent: 4}, nil, nil)
	photos := []model.Photo{
		{ID: "ok", OriginalURL: srv.URL + "/ok.jpeg"},
		{ID: "missing", OriginalURL: srv.URL + "/missing.gif"},
		{ID: "nourl"},
	}

	err := m.Download(context.Background(), photos)
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 of 3")

	require.FileExists(t, m.PhotoPath(photos[0]))
	require.NoFileExists(t, m.PhotoPath(photos[1]))
	require.NoFileExists(t, m.PhotoPath(photos[2]))
}

func TestManager_Download_Cancelled(t *testing.T) {
	srv, _ := newImageServer(t)
	m := NewManager(Config{DownloadsPath: t.TempDir(), FileNameFormat: "{id}.jpg"}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Download(ctx, []model.Photo{{ID: "1", OriginalURL: srv.URL + "/1.jpeg"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNeedsJPEG(t *testing.T) {
	tests := []struct {
		src, dest string
		want      bool
	}{
		{"https://images.pexels.com/photos/1/a.png?auto=compress", "/p/1.jpg", true},
		{"https://images.pexels.com/photos/1/a.jpeg?auto=compress", "/p/1.jpg", false},
		{"https://images.pexels.com/photos/1/a.png", "/p/1.png", false},
		{"https://images.pexels.com/photos/1/noext", "/p/1.jpg", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, needsJPEG(tt.src, tt.dest), "%s -> %s", tt.src, tt.dest)
	}
}
