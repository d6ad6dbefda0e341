package mimetypes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain, true},
		{"PDF", "application/pdf", PDF, true},
		{"PNG", "image/png", ImagePNG, true},
		{"JPEG", "image/jpeg", ImageJPEG, true},
		{"Mismatch", "text/plain; charset=utf-8", PDF, false},
		{"Invalid MIME", "not a mime", TextPlain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		detected string
		want     ResourceType
	}{
		{"image/png", Image},
		{"image/jpeg", Image},
		{"video/mp4", Video},
		{"audio/mpeg", Video},
		{"application/pdf", Raw},
		{"text/plain; charset=utf-8", Raw},
		{"garbage", Raw},
	}
	for _, tt := range tests {
		t.Run(tt.detected, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.detected))
		})
	}
}

func TestDetectFile(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	// Given a PNG signature on disk
	pngPath := filepath.Join(dir, "upload-1")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	req.NoError(os.WriteFile(pngPath, png, 0o600))

	// And a plain text file
	txtPath := filepath.Join(dir, "upload-2")
	req.NoError(os.WriteFile(txtPath, []byte("hello there"), 0o600))

	mt, rt, err := DetectFile(pngPath)
	req.NoError(err)
	req.Equal(ImagePNG, mt)
	req.Equal(Image, rt)
	req.Equal(".png", Extension(mt))

	mt, rt, err = DetectFile(txtPath)
	req.NoError(err)
	_, ok := Matches(string(mt), TextPlain)
	req.True(ok)
	req.Equal(Raw, rt)

	_, _, err = DetectFile(filepath.Join(dir, "missing"))
	req.Error(err)
}
