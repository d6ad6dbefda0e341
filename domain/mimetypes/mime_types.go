package mimetypes

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const (
	Unknown     MIME = "unknown"
	OctetStream MIME = "application/octet-stream"
	TextPlain   MIME = "text/plain"
	PDF         MIME = "application/pdf"
	ImagePNG    MIME = "image/png"
	ImageJPEG   MIME = "image/jpeg"
	ImageGIF    MIME = "image/gif"
	VideoMP4    MIME = "video/mp4"
	AudioMPEG   MIME = "audio/mpeg"
)

// ResourceType is the storage-side category of an uploaded object.
type ResourceType string

const (
	Image ResourceType = "image"
	Video ResourceType = "video"
	Raw   ResourceType = "raw"
)

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// Classify maps a media type to a resource type.
// Audio is stored alongside video, everything that is neither is raw.
func Classify(detected string) ResourceType {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Raw
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return Image
	case strings.HasPrefix(mt, "video/"), strings.HasPrefix(mt, "audio/"):
		return Video
	default:
		return Raw
	}
}

// DetectFile sniffs the file content and returns its media type and resource type.
func DetectFile(path string) (MIME, ResourceType, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown, Raw, err
	}
	return MIME(m.String()), Classify(m.String()), nil
}

// Extension returns the canonical file extension for a media type, with its dot.
func Extension(detected MIME) string {
	mt, _, err := mime.ParseMediaType(string(detected))
	if err != nil {
		return ""
	}
	if m := mimetype.Lookup(mt); m != nil {
		return m.Extension()
	}
	return ""
}
