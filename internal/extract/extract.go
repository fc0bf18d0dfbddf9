// Package extract wraps document-understanding backends that turn an uploaded file into
// structured entities or plain text.
package extract

import (
	"context"
	"errors"
	"math"
	"strings"
)

// Mode selects what the extractor returns.
type Mode string

const (
	ModeEntities Mode = "entities"
	ModeFullText Mode = "fulltext"
)

var (
	ErrUnsupportedMode     = errors.New("unsupported extraction mode")
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
)

// Document is a raw file handed to the extractor.
type Document struct {
	Content  []byte
	MimeType string
}

// Entity is one extracted field.
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Result holds Entities for ModeEntities and Text for ModeFullText.
type Result struct {
	Entities []Entity
	Text     string
}

// Client extracts content from a document with a single upstream call.
type Client interface {
	Extract(ctx context.Context, doc Document, mode Mode) (Result, error)
}

// RoundConfidence rounds a confidence score to two decimal places.
func RoundConfidence(c float32) float64 {
	return math.Round(float64(c)*100) / 100
}

// BaseMimeType strips parameters and normalizes case, e.g. "Text/Plain; charset=utf-8".
func BaseMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
