// Package intake turns user-supplied image files into encoded images.
//
// Every source (multipart upload, native picker, local path) funnels into
// Slot.Submit, which checks the declared media type, reads the bytes and
// builds a base64 data URI. The payload handed to the generation backend is
// always the part of that URI after its first comma.
package intake

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotImage rejects files whose declared media type is not image/*.
	ErrNotImage = errors.New("Please upload an image file.")
	// ErrTooLarge rejects files above the configured upload cap.
	ErrTooLarge = errors.New("image exceeds the upload size limit")
	// ErrCleared is returned by a Submit whose slot was cleared while the
	// file was being read. The read result is dropped.
	ErrCleared = errors.New("slot cleared during upload")
)

// File is a user-selected file before it is read.
type File struct {
	Name   string
	Type   string // declared media type, e.g. "image/jpeg"
	Size   int64  // declared size; -1 when unknown
	Reader io.Reader
}

// FileInfo is the retained description of the original file.
type FileInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// EncodedImage is an accepted image. PreviewURI and Payload derive from the
// same bytes; it is replaced wholesale and never mutated.
type EncodedImage struct {
	File       FileInfo `json:"file"`
	PreviewURI string   `json:"previewUri"`
	Payload    string   `json:"-"`
	MediaType  string   `json:"mediaType"`
	Info       *Info    `json:"info,omitempty"`
}

// IsImageType reports whether a declared media type is acceptable.
func IsImageType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}

// Encode reads f and builds the EncodedImage. maxBytes <= 0 disables the cap.
func Encode(ctx context.Context, f File, maxBytes int64) (*EncodedImage, error) {
	if !IsImageType(f.Type) {
		return nil, ErrNotImage
	}
	if f.Reader == nil {
		return nil, fmt.Errorf("read %s: no content", f.Name)
	}
	if maxBytes > 0 && f.Size > maxBytes {
		return nil, ErrTooLarge
	}

	r := f.Reader
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mediaType := strings.ToLower(strings.TrimSpace(f.Type))
	uri := DataURI(mediaType, data)
	_, payload, err := SplitDataURI(uri)
	if err != nil {
		return nil, err
	}

	img := &EncodedImage{
		File:       FileInfo{Name: f.Name, Type: f.Type, Size: int64(len(data))},
		PreviewURI: uri,
		Payload:    payload,
		MediaType:  mediaType,
	}
	if info, err := Probe(data); err != nil {
		log.Debug().Err(err).Str("file", f.Name).Msg("Image probe failed, continuing without it")
	} else {
		img.Info = info
	}
	return img, nil
}

// DataURI builds "data:<mediaType>;base64,<payload>".
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SplitDataURI returns the media type and the payload (everything after the
// first comma) of a base64 data URI.
func SplitDataURI(uri string) (mediaType, payload string, err error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return "", "", fmt.Errorf("malformed data URI")
	}
	mediaType, _, _ = strings.Cut(strings.TrimPrefix(meta, "data:"), ";")
	return mediaType, payload, nil
}

// DecodeDataURI returns the raw bytes of a base64 data URI.
func DecodeDataURI(uri string) (mediaType string, data []byte, err error) {
	mediaType, payload, err := SplitDataURI(uri)
	if err != nil {
		return "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return mediaType, data, nil
}

// FromBytes is a convenience for callers that already hold the file content.
func FromBytes(name, mediaType string, data []byte) File {
	return File{Name: name, Type: mediaType, Size: int64(len(data)), Reader: bytes.NewReader(data)}
}

// Slot holds at most one EncodedImage.
type Slot struct {
	mu       sync.Mutex
	current  *EncodedImage
	revision int
	maxBytes int64
}

// NewSlot creates an empty slot with an upload cap (<= 0 for none).
func NewSlot(maxBytes int64) *Slot {
	return &Slot{maxBytes: maxBytes}
}

// Submit validates and reads f, then stores the result. A rejected file leaves
// the slot untouched. Overlapping submits are not serialized: whichever read
// completes last is stored.
func (s *Slot) Submit(ctx context.Context, f File) (*EncodedImage, error) {
	if !IsImageType(f.Type) {
		log.Info().Str("file", f.Name).Str("type", f.Type).Msg("Rejected non-image upload")
		return nil, ErrNotImage
	}

	s.mu.Lock()
	rev := s.revision
	s.mu.Unlock()

	img, err := Encode(ctx, f, s.maxBytes)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != rev {
		return nil, ErrCleared
	}
	s.current = img
	log.Debug().
		Str("file", f.Name).
		Str("media_type", img.MediaType).
		Int64("size_bytes", img.File.Size).
		Msg("Image accepted")
	return img, nil
}

// Current returns the stored image or nil.
func (s *Slot) Current() *EncodedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear empties the slot and bumps its revision, which the front-end uses to
// reset the file control so the same file can be chosen again.
func (s *Slot) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.revision++
	return s.revision
}

// Revision returns the number of times the slot has been cleared.
func (s *Slot) Revision() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}
