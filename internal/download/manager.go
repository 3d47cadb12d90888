package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/handiism/pexels-search/internal/http"
	ioutils "github.com/handiism/pexels-search/internal/io"
	"github.com/handiism/pexels-search/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Config holds the download settings.
//
// DownloadsPath and FileNameFormat support these placeholders:
//   - {photographer}: photographer name
//   - {id}: Pexels photo ID
//   - {width}, {height}: original dimensions
type Config struct {
	DownloadsPath  string
	FileNameFormat string
	MaxConcurrent  int
	// MaxImageSize bounds both dimensions of saved photos. Zero keeps the
	// original size.
	MaxImageSize int
}

// Windows MAX_PATH limits.
const (
	maxFolderPath = 248
	maxFilePath   = 260
)

// ErrNoURL is returned for a photo with neither an original nor a display URL.
var ErrNoURL = errors.New("photo has no download url")

// Manager coordinates photo downloads.
type Manager struct {
	cfg          Config
	httpClient   *http.Client
	imageService *ioutils.ImageService

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32
	failedFiles     int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
//
// A nil client gets a default http.Client.
func NewManager(cfg Config, client *http.Client, onProgress func(ProgressEvent)) *Manager {
	if client == nil {
		client = http.NewClient()
	}
	if cfg.FileNameFormat == "" {
		cfg.FileNameFormat = "{id}.jpg"
	}
	return &Manager{
		cfg:          cfg,
		httpClient:   client,
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Download saves all photos concurrently, at most MaxConcurrent at a time.
//
// A failed photo does not stop the others. The returned error reports how
// many photos failed, or the context error if ctx was cancelled.
func (m *Manager) Download(ctx context.Context, photos []model.Photo) error {
	atomic.StoreInt64(&m.receivedBytes, 0)
	atomic.StoreInt32(&m.totalFiles, int32(len(photos)))
	atomic.StoreInt32(&m.downloadedFiles, 0)
	atomic.StoreInt32(&m.failedFiles, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %d photos to %s", len(photos), m.cfg.DownloadsPath), Level: LevelInfo})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.cfg.MaxConcurrent, 1))

	for _, photo := range photos {
		photo := photo
		g.Go(func() error {
			if err := m.downloadPhoto(gctx, photo); err != nil {
				atomic.AddInt32(&m.failedFiles, 1)
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading photo %s: %v", photo.ID, err), Level: LevelError})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := atomic.LoadInt32(&m.failedFiles)
	if failed > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished, %d of %d photos failed", failed, len(photos)), Level: LevelWarning})
		return fmt.Errorf("%d of %d downloads failed", failed, len(photos))
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded %d photos", len(photos)), Level: LevelSuccess})
	return nil
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

// PhotoPath computes the local file path for a photo from the config templates.
func (m *Manager) PhotoPath(photo model.Photo) string {
	folder := m.expand(m.cfg.DownloadsPath, photo, true)
	if len(folder) >= maxFolderPath {
		folder = truncateUTF8(folder, maxFolderPath-1)
	}

	fileName := ioutils.SanitizeFileName(m.expand(m.cfg.FileNameFormat, photo, false))
	filePath := filepath.Join(folder, fileName)

	if len(filePath) >= maxFilePath {
		ext := filepath.Ext(fileName)
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(folder, truncateUTF8(fileName, maxLen)+ext)
		}
	}

	return filePath
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (m *Manager) expand(template string, photo model.Photo, sanitize bool) string {
	value := func(s string) string {
		if sanitize {
			return ioutils.SanitizeFileName(s)
		}
		return s
	}
	r := strings.NewReplacer(
		"{photographer}", value(photo.Photographer),
		"{id}", value(photo.ID),
		"{width}", strconv.Itoa(photo.Width),
		"{height}", strconv.Itoa(photo.Height),
	)
	return r.Replace(template)
}

func (m *Manager) downloadPhoto(ctx context.Context, photo model.Photo) error {
	path := m.PhotoPath(photo)

	if ioutils.FileExists(path) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(path)), Level: LevelVerbose})
		atomic.AddInt32(&m.downloadedFiles, 1)
		return nil
	}

	src := photo.DownloadURL()
	if src == "" {
		return ErrNoURL
	}

	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	if m.cfg.MaxImageSize > 0 || needsJPEG(src, path) {
		if err := m.downloadProcessed(ctx, src, path); err != nil {
			return err
		}
	} else {
		var last int64
		err := m.httpClient.DownloadFile(ctx, src, path, func(written, total int64) {
			atomic.AddInt64(&m.receivedBytes, written-last)
			last = written
		})
		if err != nil {
			_ = os.Remove(path)
			return err
		}
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(path)), Level: LevelVerbose})
	return nil
}

// downloadProcessed fetches the photo into memory, resizes or converts it,
// then writes the result.
func (m *Manager) downloadProcessed(ctx context.Context, src, path string) error {
	data, err := m.httpClient.DownloadBytes(ctx, src)
	if err != nil {
		return err
	}
	atomic.AddInt64(&m.receivedBytes, int64(len(data)))

	if m.cfg.MaxImageSize > 0 {
		data, err = m.imageService.ResizeImage(ctx, data, m.cfg.MaxImageSize, m.cfg.MaxImageSize)
	} else {
		data, err = m.imageService.ConvertToJPEG(ctx, data)
	}
	if err != nil {
		return fmt.Errorf("process image: %w", err)
	}

	return ioutils.WriteFile(ctx, path, data)
}

// needsJPEG reports whether the destination is a JPEG file but the source is not.
func needsJPEG(src, dest string) bool {
	if !isJPEGExt(filepath.Ext(dest)) {
		return false
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	ext := filepath.Ext(u.Path)
	return ext != "" && !isJPEGExt(ext)
}

func isJPEGExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
