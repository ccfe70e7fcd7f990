package media

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// CaptureInfo holds the optional EXIF capture attributes persisted with a
// photo record. Every field may be absent: extraction failure is soft and the
// upload proceeds without capture data.
type CaptureInfo struct {
	// Camera is the make and model, e.g. "FUJIFILM X-T4".
	Camera string

	// Aperture is the f-number formatted as "f/1.8".
	Aperture string

	// ShutterSpeed is the exposure time as a reciprocal-seconds string with
	// the denominator rounded to the nearest integer, e.g. "1/250".
	ShutterSpeed string

	// ISO is the ISO speed rating. Zero means absent.
	ISO int

	// ShotDate is the capture timestamp. Zero value means absent.
	ShotDate time.Time
}

// ExtractCaptureInfo reads EXIF metadata from an image file using the
// imagemeta library. The library auto-detects the container format from file
// headers and reads only the metadata bytes, not the whole image.
//
// Callers treat an error here as "no capture info", never as an upload
// failure.
func ExtractCaptureInfo(filePath string) (*CaptureInfo, error) {
	log.Debug().Str("path", filePath).Msg("Extracting EXIF capture info")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	exifData, err := imagemeta.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	info := &CaptureInfo{
		Camera:       strings.TrimSpace(strings.TrimSpace(exifData.Make) + " " + strings.TrimSpace(exifData.Model)),
		Aperture:     FormatAperture(float64(exifData.FNumber)),
		ShutterSpeed: FormatShutterSpeed(float64(exifData.ExposureTime)),
		ISO:          int(exifData.ISOSpeed),
	}

	// Capture date fallback chain: DateTimeOriginal > CreateDate > ModifyDate.
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		info.ShotDate = exifData.DateTimeOriginal()
	case !exifData.CreateDate().IsZero():
		info.ShotDate = exifData.CreateDate()
	case !exifData.ModifyDate().IsZero():
		info.ShotDate = exifData.ModifyDate()
	}

	log.Debug().
		Str("path", filePath).
		Str("camera", info.Camera).
		Str("shutter", info.ShutterSpeed).
		Bool("has_date", !info.ShotDate.IsZero()).
		Msg("EXIF capture info extracted")

	return info, nil
}

// FormatShutterSpeed renders an exposure time in seconds. Sub-second
// exposures use the reciprocal form with the denominator rounded to the
// nearest integer: 0.004s becomes "1/250". Exposures of a second or longer
// use a plain seconds form: "2s", "1.5s". A zero or negative exposure
// yields "".
func FormatShutterSpeed(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	if seconds >= 1 {
		return fmt.Sprintf("%gs", seconds)
	}

	denominator := int(math.Round(1 / seconds))
	if denominator < 1 {
		denominator = 1
	}
	return fmt.Sprintf("1/%d", denominator)
}

// FormatAperture renders an f-number as "f/1.8". Whole stops drop the
// decimal: "f/8". A zero or negative f-number yields "".
func FormatAperture(fnumber float64) string {
	if fnumber <= 0 {
		return ""
	}

	rounded := math.Round(fnumber*10) / 10
	if rounded == math.Trunc(rounded) {
		return fmt.Sprintf("f/%d", int(rounded))
	}
	return fmt.Sprintf("f/%.1f", rounded)
}
