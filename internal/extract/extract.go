// Package extract converts raw document bytes of a declared format into
// plain text. No semantic cleanup (headers, footers, tables) is attempted.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"legalassist/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for formats outside the closed set.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtraction wraps failures on malformed or unreadable document bodies.
	ErrExtraction = errors.New("text extraction failed")
)

// Extractor converts document bytes into plain text.
type Extractor interface {
	Extract(data []byte, fileType model.FileType) (string, error)
}

type extractor struct{}

// New returns the default extractor supporting pdf, docx and plain text.
func New() Extractor {
	return extractor{}
}

func (extractor) Extract(data []byte, fileType model.FileType) (string, error) {
	switch fileType {
	case model.FileTypeTXT:
		return strings.ToValidUTF8(string(data), "�"), nil
	case model.FileTypePDF:
		return extractPDF(data)
	case model.FileTypeDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileType)
	}
}

// extractPDF validates the document structure first so that malformed or
// encrypted files fail with a cause, then concatenates page texts in
// document order separated by newlines.
func extractPDF(data []byte) (string, error) {
	if err := api.Validate(bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
