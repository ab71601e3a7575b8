// Package textextract is the boundary to the document text extraction
// collaborator. The screening core only ever sees plain UTF-8 text; how
// that text is pulled out of a source document (PDF, scan OCR, ...) is an
// external concern behind the Extractor interface.
package textextract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoText means extraction produced no usable text: the document was
// empty or whitespace-only.
var ErrNoText = errors.New("textextract: no text found in document")

// ErrUnsupportedType means no extractor is registered for the document's
// content type.
var ErrUnsupportedType = errors.New("textextract: unsupported content type")

// Extractor turns a source document into plain text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, contentType string) (string, error)
}

// PlainText passes already-extracted text through unchanged. It accepts
// text/plain and untyped uploads; anything else is rejected so a binary
// document is never silently scanned as prose.
type PlainText struct {
	// MaxBytes caps how much input is read; zero means 10 MiB.
	MaxBytes int64
}

func (p PlainText) Extract(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if contentType != "" && !strings.HasPrefix(contentType, "text/plain") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	max := p.MaxBytes
	if max <= 0 {
		max = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, max))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}
