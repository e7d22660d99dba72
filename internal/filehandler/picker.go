package filehandler

import (
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
)

// ErrPickCanceled is returned when the user dismisses the native dialog.
var ErrPickCanceled = errors.New("file selection canceled")

// PickImage opens a native OS file dialog filtered to supported images and
// returns the chosen path. It only makes sense when the server runs on the
// user's own machine.
func PickImage(title string) (string, error) {
	patterns := make([]string, 0, len(SupportedImageExtensions))
	for ext := range SupportedImageExtensions {
		patterns = append(patterns, "*"+ext)
	}

	selected, err := zenity.SelectFile(
		zenity.Title(title),
		zenity.FileFilters{{Name: "Images", Patterns: patterns}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrPickCanceled
		}
		return "", fmt.Errorf("native picker: %w", err)
	}
	return selected, nil
}
