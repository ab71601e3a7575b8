package textextract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPlainTextExtract(t *testing.T) {
	p := PlainText{}
	text, err := p.Extract(context.Background(), strings.NewReader("Age: 40\n"), "text/plain")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "Age: 40\n" {
		t.Errorf("got %q", text)
	}
}

func TestPlainTextExtractUntyped(t *testing.T) {
	p := PlainText{}
	if _, err := p.Extract(context.Background(), strings.NewReader("hello"), ""); err != nil {
		t.Fatalf("untyped upload rejected: %v", err)
	}
}

func TestPlainTextExtractCharsetSuffix(t *testing.T) {
	p := PlainText{}
	if _, err := p.Extract(context.Background(), strings.NewReader("hello"), "text/plain; charset=utf-8"); err != nil {
		t.Fatalf("charset suffix rejected: %v", err)
	}
}

func TestPlainTextExtractUnsupportedType(t *testing.T) {
	p := PlainText{}
	_, err := p.Extract(context.Background(), strings.NewReader("%PDF-1.4"), "application/pdf")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("got %v, want ErrUnsupportedType", err)
	}
}

func TestPlainTextExtractEmpty(t *testing.T) {
	p := PlainText{}
	_, err := p.Extract(context.Background(), strings.NewReader("  \n\t "), "text/plain")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("got %v, want ErrNoText", err)
	}
}

func TestPlainTextExtractRespectsCap(t *testing.T) {
	p := PlainText{MaxBytes: 8}
	text, err := p.Extract(context.Background(), strings.NewReader("0123456789abcdef"), "text/plain")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "01234567" {
		t.Errorf("got %q, want first 8 bytes", text)
	}
}
