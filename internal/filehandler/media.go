// Package filehandler loads images from the local filesystem.
//
// The CLI, the MCP server and the native picker hand over file paths; this
// package resolves the media type from the extension and opens the file as an
// intake.File so every source goes through the same intake path.
package filehandler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/rs/zerolog/log"
)

// SupportedImageExtensions maps accepted file extensions to media types.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
}

// GetMIMEType returns the media type for an extension, or an error for
// anything that is not a supported image.
func GetMIMEType(ext string) (string, error) {
	if mimeType, ok := SupportedImageExtensions[strings.ToLower(ext)]; ok {
		return mimeType, nil
	}
	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// IsImage reports whether ext is a supported image extension.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// OpenImage opens filePath as an intake.File. Unknown extensions are opened
// with a generic media type so intake rejects them with its usual notice.
// The caller must close the returned closer.
func OpenImage(filePath string) (intake.File, io.Closer, error) {
	log.Debug().Str("path", filePath).Msg("Opening image file")

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return intake.File{}, nil, fmt.Errorf("file not found: %s", filePath)
		}
		return intake.File{}, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return intake.File{}, nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	mimeType, err := GetMIMEType(filepath.Ext(filePath))
	if err != nil {
		mimeType = "application/octet-stream"
	}

	f, err := os.Open(filePath)
	if err != nil {
		return intake.File{}, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return intake.File{
		Name:   filepath.Base(filePath),
		Type:   mimeType,
		Size:   info.Size(),
		Reader: f,
	}, f, nil
}
