// Package tui provides a Bubble Tea terminal user interface for pexels-search.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/pexels-search/internal/config"
	"github.com/handiism/pexels-search/internal/download"
	"github.com/handiism/pexels-search/internal/http"
	ioutils "github.com/handiism/pexels-search/internal/io"
	"github.com/handiism/pexels-search/internal/model"
	"github.com/handiism/pexels-search/internal/pexels"
	"github.com/handiism/pexels-search/internal/search"
)

// View selects how results are laid out.
type View int

const (
	ViewGrid View = iota
	ViewGrouped
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Message types
type (
	// StateMsg carries a controller snapshot.
	StateMsg struct {
		State search.State
	}

	// PreviewMsg is sent when a thumbnail preview has been rendered.
	PreviewMsg struct {
		ID      string
		Preview string
		Err     error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Received int64
		Files    int32
		TotalF   int32
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	controller *search.Controller
	updates    chan search.State
	state      search.State

	view        View
	searching   bool
	cursor      int
	groupCursor int
	openGroup   string

	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings

	fetcher  *http.Client
	images   *ioutils.ImageService
	previews map[string]string
	failed   map[string]error

	// Download state
	manager     *download.Manager
	downloading bool
	events      chan download.ProgressEvent
	logs        []LogEntry

	downloadedFiles int32
	totalFiles      int32
	receivedBytes   int64

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model driven by controller.
//
// The model subscribes to the controller; snapshots are delivered as
// StateMsg once Init has run.
func NewModel(controller *search.Controller, settings *config.Settings, fetcher *http.Client) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if fetcher == nil {
		fetcher = http.NewClient()
	}

	ti := textinput.New()
	ti.Placeholder = "Search for free photos"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05A081"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	updates := make(chan search.State, 1)
	controller.Subscribe(forward(updates))

	return Model{
		controller: controller,
		updates:    updates,
		state:      controller.Snapshot(),
		searching:  true,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		fetcher:    fetcher,
		images:     ioutils.NewImageService(),
		previews:   make(map[string]string),
		failed:     make(map[string]error),
		events:     make(chan download.ProgressEvent, 64),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// forward keeps only the newest undelivered snapshot in ch. The bus
// dispatcher is the only sender, so the send never blocks.
func forward(ch chan search.State) func(search.State) {
	return func(s search.State) {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func waitForState(ch chan search.State) tea.Cmd {
	return func() tea.Msg {
		return StateMsg{State: <-ch}
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForState(m.updates))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearching(msg)
		}
		return m.updateResults(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case StateMsg:
		cmds = append(cmds, waitForState(m.updates))
		if msg.State.Version < m.state.Version {
			break
		}
		if msg.State.Seq != m.state.Seq {
			m.cursor = 0
			m.groupCursor = 0
			m.openGroup = ""
		}
		m.state = msg.State
		m.clampCursors()

	case PreviewMsg:
		if msg.Err != nil {
			m.failed[msg.ID] = msg.Err
		} else {
			m.previews[msg.ID] = msg.Preview
		}

	case TickMsg:
		if m.manager != nil && m.downloading {
			m.drainEvents()
			received, files, total := m.manager.GetProgress()
			m.receivedBytes = received
			m.downloadedFiles = files
			m.totalFiles = total

			var percent float64
			if total > 0 {
				percent = float64(files) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.drainEvents()
		m.downloading = false
		m.receivedBytes = msg.Received
		m.downloadedFiles = msg.Files
		m.totalFiles = msg.TotalF
		if msg.Err != nil {
			m.appendLog(LogEntry{Message: msg.Err.Error(), Level: download.LevelError})
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if _, issued := m.controller.SubmitQuery(m.textInput.Value()); issued {
			m.state = m.controller.Snapshot()
			m.cursor, m.groupCursor, m.openGroup = 0, 0, ""
			m.blurInput()
		}
		return m, nil

	case "esc":
		if len(m.state.Results) == 0 {
			m.cancel()
			return m, tea.Quit
		}
		m.blurInput()
		return m, nil

	case "tab":
		m.toggleView()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.cancel()
		return m, tea.Quit

	case "/":
		m.searching = true
		m.textInput.Focus()
		return m, textinput.Blink

	case "tab":
		m.toggleView()

	case "left":
		if m.view == ViewGrid {
			m.moveCursor(-1)
		}

	case "right":
		if m.view == ViewGrid {
			m.moveCursor(1)
		}

	case "up", "k":
		if m.view == ViewGrid {
			m.moveCursor(-m.columns())
		} else {
			m.moveGroup(-1)
		}

	case "down", "j":
		if m.view == ViewGrid {
			m.moveCursor(m.columns())
		} else {
			m.moveGroup(1)
		}

	case "enter":
		if m.view == ViewGrouped {
			m.toggleGroup()
			return m, nil
		}
		photo, ok := m.currentPhoto()
		if !ok {
			return m, nil
		}
		m.controller.ToggleExpanded(photo.ID)
		m.state = m.controller.Snapshot()
		if m.state.Expanded(photo.ID) {
			return m, m.fetchPreview(photo.ID, photo.PhotoURL)
		}

	case "l":
		if photo, ok := m.currentPhoto(); ok && m.view == ViewGrid {
			m.controller.ToggleLiked(photo.ID)
			m.state = m.controller.Snapshot()
		}

	case "d":
		if photos := m.downloadTarget(); !m.downloading && len(photos) > 0 {
			return m, m.startDownload(photos)
		}
	}

	return m, nil
}

func (m *Model) blurInput() {
	m.searching = false
	m.textInput.Blur()
}

func (m *Model) toggleView() {
	if m.view == ViewGrid {
		m.view = ViewGrouped
	} else {
		m.view = ViewGrid
	}
}

func (m Model) columns() int {
	return max(m.settings.GridColumns, 1)
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.state.Results) {
		m.cursor = next
	}
}

func (m *Model) moveGroup(delta int) {
	next := m.groupCursor + delta
	if next >= 0 && next < len(m.groups()) {
		m.groupCursor = next
	}
}

func (m *Model) toggleGroup() {
	groups := m.groups()
	if m.groupCursor >= len(groups) {
		return
	}
	name := groups[m.groupCursor].Name
	if m.openGroup == name {
		m.openGroup = ""
	} else {
		m.openGroup = name
	}
}

func (m *Model) clampCursors() {
	if m.cursor >= len(m.state.Results) {
		m.cursor = max(len(m.state.Results)-1, 0)
	}
	if groups := m.groups(); m.groupCursor >= len(groups) {
		m.groupCursor = max(len(groups)-1, 0)
	}
}

// groups aggregates the snapshot the model last received, never the live
// controller state.
func (m Model) groups() []model.PhotographerGroup {
	return model.GroupByPhotographer(m.state.Results)
}

func (m Model) currentPhoto() (model.Photo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Results) {
		return model.Photo{}, false
	}
	return m.state.Results[m.cursor], true
}

func (m *Model) appendLog(entry LogEntry) {
	m.logs = append(m.logs, entry)
	// Keep only last 5 logs
	if len(m.logs) > 5 {
		m.logs = m.logs[len(m.logs)-5:]
	}
}

func (m *Model) drainEvents() {
	for {
		select {
		case event := <-m.events:
			if event.Level != download.LevelVerbose {
				m.appendLog(LogEntry{Message: event.Message, Level: event.Level})
			}
		default:
			return
		}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// fetchPreview downloads the display image and renders it as text.
func (m Model) fetchPreview(id, url string) tea.Cmd {
	if _, ok := m.previews[id]; ok {
		return nil
	}
	delete(m.failed, id)

	ctx := m.ctx
	fetcher, images, columns := m.fetcher, m.images, m.settings.PreviewColumns
	return func() tea.Msg {
		data, err := fetcher.DownloadBytes(ctx, url)
		if err != nil {
			return PreviewMsg{ID: id, Err: err}
		}
		preview, err := images.RenderPreview(ctx, data, columns)
		return PreviewMsg{ID: id, Preview: preview, Err: err}
	}
}

// downloadTarget returns the open photographer's photos in the grouped view,
// otherwise every result.
func (m Model) downloadTarget() []model.Photo {
	if m.view == ViewGrouped && m.openGroup != "" {
		return model.PhotosBy(m.state.Results, m.openGroup)
	}
	return m.state.Results
}

// startDownload saves photos in the background.
func (m *Model) startDownload(photos []model.Photo) tea.Cmd {
	events := m.events
	m.manager = download.NewManager(m.settings.ToDownloadConfig(), m.fetcher, func(event download.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	})
	m.downloading = true
	m.logs = nil
	m.downloadedFiles, m.receivedBytes = 0, 0
	m.totalFiles = int32(len(photos))

	manager, ctx := m.manager, m.ctx
	run := func() tea.Msg {
		err := manager.Download(ctx, photos)
		received, files, total := manager.GetProgress()
		return DownloadDoneMsg{Received: received, Files: files, TotalF: total, Err: err}
	}
	return tea.Batch(run, m.tickProgress())
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *slog.Logger) error {
	client := http.NewClient(settings.HTTPOptions()...)
	api := pexels.NewClient(settings.ToPexelsConfig(), logger, settings.HTTPOptions()...)

	controller := search.NewController(api, logger)
	defer controller.Close()

	p := tea.NewProgram(NewModel(controller, settings, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
