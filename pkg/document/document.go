// Package document performs local input validation for uploads: MIME
// sniffing, the analysis size ceiling, and a best-effort page count for the
// preview surface. All checks run before any network call; no page content
// is ever parsed or measured here.
package document

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxAnalyzeSize is the upload ceiling for document analysis.
const MaxAnalyzeSize = 20 * 1024 * 1024

// ErrInvalidInput is wrapped by every local rejection (wrong type, oversize,
// empty payload).
var ErrInvalidInput = errors.New("invalid input")

const (
	MIMEPDF  = "application/pdf"
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEWebP = "image/webp"
)

var pdfMagic = []byte("%PDF-")

// SniffMIME identifies the payload type from its magic bytes. Returns an
// empty string for anything unrecognized.
func SniffMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return MIMEPDF
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return MIMEPNG
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return MIMEJPEG
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return MIMEWebP
	}
	return ""
}

// ValidateForAnalysis enforces the upload constraint for document analysis:
// PDF content only, at most MaxAnalyzeSize bytes. The sniffed bytes win over
// any declared MIME type.
func ValidateForAnalysis(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidInput)
	}
	if len(data) > MaxAnalyzeSize {
		return fmt.Errorf("%w: file is %d bytes, limit is %d (20 MB)", ErrInvalidInput, len(data), MaxAnalyzeSize)
	}
	if mime := SniffMIME(data); mime != MIMEPDF {
		return fmt.Errorf("%w: analysis accepts PDF only, detected %q", ErrInvalidInput, orUnknown(mime))
	}
	return nil
}

// ValidateImage checks an edit-source payload: a recognized raster format,
// same size ceiling as analysis. Returns the sniffed MIME type.
func ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidInput)
	}
	if len(data) > MaxAnalyzeSize {
		return "", fmt.Errorf("%w: file is %d bytes, limit is %d (20 MB)", ErrInvalidInput, len(data), MaxAnalyzeSize)
	}
	mime := SniffMIME(data)
	switch mime {
	case MIMEPNG, MIMEJPEG, MIMEWebP:
		return mime, nil
	}
	return "", fmt.Errorf("%w: expected PNG, JPEG, or WebP image, detected %q", ErrInvalidInput, orUnknown(mime))
}

func orUnknown(mime string) string {
	if mime == "" {
		return "unknown"
	}
	return mime
}
