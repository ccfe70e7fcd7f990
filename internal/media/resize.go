package media

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	// Registered for image.DecodeConfig dimension reads.
	_ "golang.org/x/image/webp"
)

// Encode quality for downscaled lossy formats.
const (
	jpegQuality = 90
	webpQuality = 90
)

// FitWithin calculates dimensions scaled so that neither side exceeds
// maxDimension, preserving aspect ratio. Images already within the limit are
// returned unchanged; this never upscales.
func FitWithin(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}

	if width > height {
		newWidth := maxDimension
		newHeight := int(float64(height) * float64(maxDimension) / float64(width))
		return newWidth, newHeight
	}

	newHeight := maxDimension
	newWidth := int(float64(width) * float64(maxDimension) / float64(height))
	return newWidth, newHeight
}

// ReadDimensions returns the pixel dimensions of an image file without
// decoding the full image.
func ReadDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image dimensions: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Downscale applies the size-limiting transformation to a local image file.
// A file with a side larger than maxDimension is resized so the longer side
// equals maxDimension and re-encoded in its source format; the resized bytes
// and final dimensions are returned with resized=true. The limit holds for
// every supported format.
//
// Files already within the limit return resized=false with nil data and
// their original dimensions, and the caller uploads the source file
// unchanged. Upscaling never happens. An animated GIF over the limit is
// resized from its first frame.
func Downscale(path string, maxDimension int) (data []byte, width, height int, resized bool, err error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var img image.Image
	switch ext {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	case ".png":
		img, err = png.Decode(f)
	case ".gif":
		img, err = gif.Decode(f)
	case ".webp":
		img, err = webp.Decode(f)
	default:
		return nil, 0, 0, false, fmt.Errorf("unsupported file extension: %s", ext)
	}
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()

	newWidth, newHeight := FitWithin(origWidth, origHeight, maxDimension)
	if newWidth == origWidth && newHeight == origHeight {
		return nil, origWidth, origHeight, false, nil
	}

	scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	case ".png":
		err = png.Encode(&buf, scaled)
	case ".gif":
		err = gif.Encode(&buf, scaled, nil)
	case ".webp":
		err = webp.Encode(&buf, scaled, &webp.Options{Quality: webpQuality, Lossless: false})
	}
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("failed to encode resized image: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("orig_width", origWidth).
		Int("orig_height", origHeight).
		Int("new_width", newWidth).
		Int("new_height", newHeight).
		Int("output_size", buf.Len()).
		Msg("Image downscaled")

	return buf.Bytes(), newWidth, newHeight, true, nil
}
