package extract

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

type processor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
}

// DocumentAI extracts entities and text with a Google Document AI processor.
type DocumentAI struct {
	client processor
	closer func() error
	name   string
}

// ProcessorName builds the fully qualified processor resource name.
func ProcessorName(projectID, location, processorID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID)
}

// NewDocumentAI dials the Document AI processor service. Callers pass the regional
// endpoint for location through opts.
func NewDocumentAI(ctx context.Context, projectID, location, processorID string, opts ...option.ClientOption) (*DocumentAI, error) {
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai new client: %w", err)
	}
	return &DocumentAI{
		client: client,
		closer: client.Close,
		name:   ProcessorName(projectID, location, processorID),
	}, nil
}

// Extract processes doc synchronously and shapes the response for mode.
func (d *DocumentAI) Extract(ctx context.Context, doc Document, mode Mode) (Result, error) {
	if mode != ModeEntities && mode != ModeFullText {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	resp, err := d.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: d.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  doc.Content,
				MimeType: doc.MimeType,
			},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("documentai process document name=%s mime=%s: %w", d.name, doc.MimeType, err)
	}

	document := resp.GetDocument()
	if mode == ModeFullText {
		return Result{Text: document.GetText()}, nil
	}
	return Result{Entities: entitiesFrom(document)}, nil
}

// Close releases the underlying connection.
func (d *DocumentAI) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}

func entitiesFrom(document *documentaipb.Document) []Entity {
	raw := document.GetEntities()
	out := make([]Entity, 0, len(raw))
	for _, e := range raw {
		out = append(out, Entity{
			Type:       e.GetType(),
			Value:      e.GetMentionText(),
			Confidence: RoundConfidence(e.GetConfidence()),
		})
	}
	return out
}

var _ Client = (*DocumentAI)(nil)
