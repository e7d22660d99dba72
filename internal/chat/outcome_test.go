package chat

import (
	"errors"
	"testing"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		name     string
		parts    []Part
		wantURI  string
		wantNote string
		wantErr  bool
	}{
		{
			name:    "single image",
			parts:   []Part{ImagePart("image/png", "XYZ")},
			wantURI: "data:image/png;base64,XYZ",
		},
		{
			name:    "first image wins",
			parts:   []Part{ImagePart("image/jpeg", "ONE"), ImagePart("image/png", "TWO")},
			wantURI: "data:image/jpeg;base64,ONE",
		},
		{
			name:     "last text wins",
			parts:    []Part{TextPart("first"), ImagePart("image/png", "XYZ"), TextPart("second")},
			wantURI:  "data:image/png;base64,XYZ",
			wantNote: "second",
		},
		{
			name:    "no parts",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ParseOutcome(tt.parts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if out.ImageURI != tt.wantURI || out.Note != tt.wantNote {
				t.Errorf("got %+v", out)
			}
		})
	}
}

func TestRemoteError_Unwraps(t *testing.T) {
	cause := errors.New("boom")
	err := remoteError(cause)
	if !errors.Is(err, cause) {
		t.Error("RemoteError should unwrap to its cause")
	}
	if remoteError(ErrMissingAPIKey) != ErrMissingAPIKey {
		t.Error("missing key should pass through unchanged")
	}
}
