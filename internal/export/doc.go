// Package export renders the photographer grouping of a result set
// for saving or printing.
//
// Generate an export in one of the supported formats:
//
//	exporter := export.NewExporter(export.FormatJSON)
//	content, err := exporter.Export(query, controller.Groups())
//
// Supported formats:
//   - Markdown
//   - JSON
//   - Plain text (tab separated)
package export
