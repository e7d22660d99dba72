package presenter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/rs/zerolog/log"
)

// Save decodes a result data URI and writes it to path. A directory path (or
// an empty one) gets DownloadFileName appended. It returns the written path.
func Save(path, dataURI string) (string, error) {
	_, data, err := intake.DecodeDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("save result: %w", err)
	}

	if path == "" {
		path = DownloadFileName
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DownloadFileName)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save result: %w", err)
	}
	log.Info().Str("path", path).Int("size_bytes", len(data)).Msg("Result saved")
	return path, nil
}
