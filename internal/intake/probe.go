package intake

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/evanoberholster/imagemeta"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes an accepted image. It never affects the encoded bytes.
type Info struct {
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Format      string    `json:"format,omitempty"`
	CameraMake  string    `json:"cameraMake,omitempty"`
	CameraModel string    `json:"cameraModel,omitempty"`
	Captured    time.Time `json:"captured,omitzero"`
}

// Probe reads dimensions and, when present, EXIF camera and capture details.
// It returns an error only when neither source yields anything.
func Probe(data []byte) (*Info, error) {
	info := &Info{}

	cfg, format, cfgErr := image.DecodeConfig(bytes.NewReader(data))
	if cfgErr == nil {
		info.Width, info.Height, info.Format = cfg.Width, cfg.Height, format
	}

	exifData, exifErr := imagemeta.Decode(bytes.NewReader(data))
	if exifErr == nil {
		info.CameraMake = strings.TrimSpace(exifData.Make)
		info.CameraModel = strings.TrimSpace(exifData.Model)
		switch {
		case !exifData.DateTimeOriginal().IsZero():
			info.Captured = exifData.DateTimeOriginal()
		case !exifData.CreateDate().IsZero():
			info.Captured = exifData.CreateDate()
		}
	}

	if cfgErr != nil && exifErr != nil {
		return nil, fmt.Errorf("probe image: %w", cfgErr)
	}
	return info, nil
}
