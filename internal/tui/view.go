package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/handiism/pexels-search/internal/download"
	"github.com/handiism/pexels-search/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#05A081")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	likedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#6C757D")).
			Padding(0, 1)

	selectedCellStyle = cellStyle.
				BorderForeground(lipgloss.Color("#F8B500"))

	photographerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8B500"))
)

const cellWidth = 22

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Pexels Search"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n\n")

	switch m.view {
	case ViewGrid:
		b.WriteString(m.viewGrid())
		if detail := m.viewDetail(); detail != "" {
			b.WriteString("\n")
			b.WriteString(detail)
		}
	case ViewGrouped:
		b.WriteString(m.viewGrouped())
	}

	if m.manager != nil {
		b.WriteString("\n")
		b.WriteString(m.viewDownload())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewStatus() string {
	switch {
	case m.state.Loading:
		return m.spinner.View() + " " + subtitleStyle.Render(fmt.Sprintf("Searching for %q...", m.state.Query))
	case m.state.LastError != nil:
		return errorStyle.Render("✗ " + m.state.LastError.Error())
	case m.state.Query == "":
		return dimStyle.Render("Type a query and press enter")
	default:
		return successStyle.Render(fmt.Sprintf("%d photos for %q", len(m.state.Results), m.state.Query))
	}
}

func (m Model) viewGrid() string {
	if len(m.state.Results) == 0 {
		return dimStyle.Render("No photos")
	}

	columns := m.columns()
	var rows []string
	for start := 0; start < len(m.state.Results); start += columns {
		end := min(start+columns, len(m.state.Results))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderCell(i, m.state.Results[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(index int, photo model.Photo) string {
	swatch := dimStyle.Render("██")
	if photo.AvgColor != "" {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(photo.AvgColor)).Render("██")
	}

	heart := dimStyle.Render("♡")
	if m.state.Liked(photo) {
		heart = likedStyle.Render("♥")
	}

	marker := " "
	if m.state.Expanded(photo.ID) {
		marker = "▾"
	}

	name := ansi.Truncate(photo.Photographer, cellWidth-4, "…")
	dims := ansi.Truncate(photo.Dimensions(), cellWidth-6, "…")

	content := fmt.Sprintf("%s %s %s\n%s", swatch, heart, marker, photographerStyle.Render(name))
	if dims != "" {
		content += "\n" + dimStyle.Render(dims)
	}

	style := cellStyle
	if index == m.cursor && !m.searching {
		style = selectedCellStyle
	}
	return style.Width(cellWidth).Render(content)
}

func (m Model) viewDetail() string {
	photo, ok := m.state.ExpandedPhoto()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(photographerStyle.Render(photo.Photographer))
	if photo.Dimensions() != "" {
		b.WriteString(dimStyle.Render("  " + photo.Dimensions()))
	}
	b.WriteString("\n")
	if photo.Alt != "" {
		b.WriteString(photo.Alt)
		b.WriteString("\n")
	}
	b.WriteString(infoStyle.Render(photo.PhotoURL))
	b.WriteString("\n")
	if photo.PhotographerURL != "" {
		b.WriteString(dimStyle.Render(photo.PhotographerURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch preview, ok := m.previews[photo.ID]; {
	case ok:
		b.WriteString(preview)
	case m.failed[photo.ID] != nil:
		b.WriteString(errorStyle.Render("Preview unavailable: " + m.failed[photo.ID].Error()))
	default:
		b.WriteString(m.spinner.View() + " " + dimStyle.Render("Loading preview..."))
	}

	return boxStyle.Render(b.String())
}

func (m Model) viewGrouped() string {
	groups := m.groups()
	if len(groups) == 0 {
		return dimStyle.Render("No photographers")
	}

	var b strings.Builder
	for i, group := range groups {
		cursor := "  "
		if i == m.groupCursor && !m.searching {
			cursor = "› "
		}
		name := group.Name
		if name == "" {
			name = "(unknown)"
		}
		b.WriteString(cursor)
		b.WriteString(photographerStyle.Render(name))
		b.WriteString(dimStyle.Render(fmt.Sprintf(" (%d)", len(group.PhotoURLs))))
		b.WriteString("\n")

		if group.Name == m.openGroup {
			for _, url := range group.PhotoURLs {
				b.WriteString(infoStyle.Render("    " + url))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func (m Model) viewDownload() string {
	var b strings.Builder

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %.2f MB",
		m.downloadedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	if m.searching {
		return "enter: search • tab: grid/grouped • esc: results"
	}
	switch m.view {
	case ViewGrouped:
		return "↑/↓: move • enter: show photos • tab: grid • /: search • d: download open group • q: quit"
	default:
		return "arrows: move • enter: expand • l: like • tab: grouped • /: search • d: download • q: quit"
	}
}
