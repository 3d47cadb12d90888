// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File writing and existence checks
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Photo resizing, JPEG conversion and terminal previews
//
// # File Operations
//
//	ioutils.EnsureDir("/photos/Joey Farina")
//	ioutils.WriteFile(ctx, "/photos/cats.md", manifest)
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Joey: Farina") // "Joey_ Farina"
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	resized, err := svc.ResizeImage(ctx, data, 2000, 2000)
//	preview, err := svc.RenderPreview(ctx, data, 40)
package ioutils
