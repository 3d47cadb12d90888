package export

import (
	"encoding/json"
	"fmt"
	"strings"

	ioutils "github.com/handiism/pexels-search/internal/io"
	"github.com/handiism/pexels-search/internal/model"
)

// Format represents supported export formats.
//
//   - Markdown: a heading per photographer with a bulleted URL list
//   - JSON: an object holding the query and the ordered photographer groups
//   - Text: one "photographer<TAB>url" line per photo; tabs and line breaks
//     in the name are replaced by spaces
type Format int

const (
	// FormatMarkdown creates .md files (the default).
	FormatMarkdown Format = iota

	// FormatJSON creates .json files.
	FormatJSON

	// FormatText creates tab separated .txt files.
	FormatText
)

// ParseFormat returns the Format named by s ("md", "markdown", "json",
// "txt" or "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return FormatMarkdown, fmt.Errorf("unknown export format %q", s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatText:
		return ".txt"
	default:
		return ".md"
	}
}

// FileName returns a file name for exporting query in this format.
func (f Format) FileName(query string) string {
	name := ioutils.SanitizeFileName(query)
	if name == "" {
		name = "photographers"
	}
	return name + f.Extension()
}

// Exporter renders photographer groups in a Format.
//
// Example:
//
//	exporter := NewExporter(FormatMarkdown)
//	content, err := exporter.Export("cats", model.GroupByPhotographer(photos))
//	os.WriteFile("cats.md", []byte(content), 0644)
//
//	// Result:
//	// # cats
//	//
//	// ## Joey Farina (2)
//	//
//	// - https://images.pexels.com/photos/1/a.jpeg
//	// - https://images.pexels.com/photos/3/c.jpeg
type Exporter struct {
	format Format
}

// NewExporter creates a new Exporter.
func NewExporter(format Format) *Exporter {
	return &Exporter{format: format}
}

// Export renders groups for query. Group order is kept as given.
func (e *Exporter) Export(query string, groups []model.PhotographerGroup) (string, error) {
	switch e.format {
	case FormatJSON:
		return e.exportJSON(query, groups)
	case FormatText:
		return e.exportText(groups), nil
	default:
		return e.exportMarkdown(query, groups), nil
	}
}

func (e *Exporter) exportMarkdown(query string, groups []model.PhotographerGroup) string {
	var sb strings.Builder

	title := query
	if title == "" {
		title = "Photographers"
	}
	sb.WriteString(fmt.Sprintf("# %s\n", escapeMarkdown(title)))

	for _, group := range groups {
		name := group.Name
		if name == "" {
			name = "(unknown)"
		}
		sb.WriteString(fmt.Sprintf("\n## %s (%d)\n\n", escapeMarkdown(name), len(group.PhotoURLs)))
		for _, url := range group.PhotoURLs {
			sb.WriteString(fmt.Sprintf("- %s\n", url))
		}
	}

	return sb.String()
}

type jsonGroup struct {
	Photographer string   `json:"photographer"`
	Photos       []string `json:"photos"`
}

type jsonExport struct {
	Query         string      `json:"query"`
	Photographers []jsonGroup `json:"photographers"`
}

func (e *Exporter) exportJSON(query string, groups []model.PhotographerGroup) (string, error) {
	out := jsonExport{Query: query, Photographers: make([]jsonGroup, 0, len(groups))}
	for _, group := range groups {
		urls := group.PhotoURLs
		if urls == nil {
			urls = []string{}
		}
		out.Photographers = append(out.Photographers, jsonGroup{Photographer: group.Name, Photos: urls})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func (e *Exporter) exportText(groups []model.PhotographerGroup) string {
	var sb strings.Builder
	for _, group := range groups {
		for _, url := range group.PhotoURLs {
			sb.WriteString(fmt.Sprintf("%s\t%s\n", escapeText(group.Name), url))
		}
	}
	return sb.String()
}

var textEscaper = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// escapeText keeps a name on one line and in one column.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// escapeMarkdown escapes characters that would start markdown formatting.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"#", `\#`,
		"[", `\[`,
		"]", `\]`,
	)
	return r.Replace(s)
}
