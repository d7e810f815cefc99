// Package extraction turns uploaded résumé documents into plain text using
// a tiered, cheapest-first strategy: direct decoding for text files, a
// native PDF text pass, and finally the vision oracle for images and
// scanned documents.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/hiring-pipeline/internal/prompts"
)

const (
	// MaxDocumentBytes bounds the accepted document size. Oversized uploads
	// are rejected before any extraction work starts.
	MaxDocumentBytes = 10 << 20
	// MinTextLength is the floor below which extracted text is treated as
	// unusable. Short PDF decodes additionally fall through to vision.
	MinTextLength = 50
)

// VisionClient is the subset of the oracle client used for document OCR.
type VisionClient interface {
	ExtractDocumentText(ctx context.Context, data []byte, mimeType string, prompt string) (string, error)
}

// Extractor extracts plain text from résumé documents.
type Extractor struct {
	vision VisionClient
}

// New creates an Extractor backed by the given vision client.
func New(vision VisionClient) *Extractor {
	return &Extractor{vision: vision}
}

// Extract produces plain text from a document with a declared MIME type.
// It is a pure transform apart from the vision oracle call.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Message: "document is empty"}
	}
	if len(data) > MaxDocumentBytes {
		return "", &ExtractionError{Message: fmt.Sprintf("document too large: %d bytes (max %d)", len(data), MaxDocumentBytes)}
	}

	mime := normalizeMIME(mimeType)

	var text string
	switch {
	case strings.HasPrefix(mime, "text/"):
		text = decodePlainText(data)

	case mime == "application/pdf":
		text = decodePDFText(data)
		if len(strings.TrimSpace(text)) < MinTextLength {
			// Likely a scanned or image-only PDF; hand it to vision.
			visionText, err := e.visionExtract(ctx, data, mime)
			if err != nil {
				return "", err
			}
			text = visionText
		}

	case mime == "image/png" || mime == "image/jpeg" || mime == "image/webp":
		visionText, err := e.visionExtract(ctx, data, mime)
		if err != nil {
			return "", err
		}
		text = visionText

	default:
		return "", &ExtractionError{Message: fmt.Sprintf("unsupported document type: %s", mimeType)}
	}

	text = strings.TrimSpace(text)
	if len(text) < MinTextLength {
		return "", &ExtractionError{Message: fmt.Sprintf("insufficient text: extracted %d characters (min %d)", len(text), MinTextLength)}
	}
	return text, nil
}

func (e *Extractor) visionExtract(ctx context.Context, data []byte, mime string) (string, error) {
	prompt := prompts.MustGet("vision.json", "extract-document-text")
	text, err := e.vision.ExtractDocumentText(ctx, data, mime, prompt)
	if err != nil {
		return "", &ExtractionError{Message: "vision extraction failed", Cause: err}
	}
	return text, nil
}

// normalizeMIME lowercases the declared type and strips parameters such as
// charset suffixes.
func normalizeMIME(mimeType string) string {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}

// decodePlainText decodes bytes as UTF-8, dropping invalid sequences.
func decodePlainText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

// decodePDFText runs the native PDF text pass. An empty string means the
// pass produced nothing usable and the caller should fall through.
func decodePDFText(data []byte) string {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return ""
	}
	return buf.String()
}
