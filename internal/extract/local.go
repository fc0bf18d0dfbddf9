package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
)

// Local extracts plain text in-process. It serves ModeFullText for PDF and plain-text
// files only; images and entity extraction need Document AI.
type Local struct{}

// Extract pulls text from an in-memory payload.
func (Local) Extract(ctx context.Context, doc Document, mode Mode) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if mode != ModeFullText {
		return Result{}, fmt.Errorf("%w: local extractor supports %q only", ErrUnsupportedMode, ModeFullText)
	}

	normalized := BaseMimeType(doc.MimeType)
	switch normalized {
	case mimePDF:
		text, err := extractPDF(doc.Content)
		if err != nil {
			return Result{}, fmt.Errorf("extract pdf: %w", err)
		}
		return Result{Text: text}, nil
	case mimeText:
		if !utf8.Valid(doc.Content) {
			return Result{}, fmt.Errorf("extract text: content is not valid utf-8")
		}
		return Result{Text: string(doc.Content)}, nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedMimeType, normalized)
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ Client = Local{}
