package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for photos.
//
// ImageService is used to:
//   - Resize photos to fit maximum dimensions before saving them
//   - Convert photos to JPEG format
//   - Render a small preview of a photo in the terminal
//
// Example usage:
//
//	svc := NewImageService()
//
//	// Resize to max 2000x2000 and save
//	resized, _ := svc.ResizeImage(ctx, photoData, 2000, 2000)
//
//	// Render a 40 column preview
//	preview, _ := svc.RenderPreview(ctx, photoData, 40)
//	fmt.Println(preview)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// fitWithin returns width and height scaled down to fit maxWidth x
// maxHeight, preserving the aspect ratio. Smaller sizes are returned as is.
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		// Width is the limiting factor
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}

	return max(width, 1), max(height, 1)
}

// scale draws img into a new RGBA image of the given size using Catmull-Rom.
func scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. If the image is already smaller than the
// maximum dimensions, it will still be processed (re-encoded as JPEG).
//
// Returns the resized image as JPEG-encoded bytes.
//
// Example:
//
//	// Resize to fit within 1000x1000, maintaining aspect ratio
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
//	// A 1500x1000 image becomes 1000x666
//	// A 800x600 image remains 800x600 (but re-encoded)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	dst := scale(img, width, height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format with 90% quality.
//
// Pexels serves some originals as PNG; this lets them be saved under a
// ".jpg" file name.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// RenderPreview renders an image as terminal text, columns cells wide.
//
// Each cell is an upper half block whose foreground is the top pixel and
// whose background is the bottom pixel, so one text row shows two pixel
// rows. Terminal cells are roughly twice as tall as wide, which keeps the
// aspect ratio close to the original.
func (s *ImageService) RenderPreview(ctx context.Context, data []byte, columns int) (string, error) {
	if columns <= 0 {
		return "", fmt.Errorf("invalid preview width %d", columns)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return "", fmt.Errorf("empty image")
	}
	width := min(columns, bounds.Dx())
	height := max(bounds.Dy()*width/bounds.Dx(), 1)
	if height%2 == 1 {
		height++
	}
	small := scale(img, width, height)

	var b strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := hexColor(small.At(x, y))
			bottom := hexColor(small.At(x, y+1))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y+2 < height {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}
