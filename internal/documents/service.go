package documents

import (
	"context"
	"strings"
	"time"

	"cognidoc-backend/internal/extract"
	"cognidoc-backend/internal/llm"
	"cognidoc-backend/internal/search"
	"cognidoc-backend/internal/shared/apperr"
	"cognidoc-backend/internal/shared/metrics"
	"cognidoc-backend/internal/shared/telemetry"
)

// Prompt types accepted by AnalyzeDocument.
const (
	PromptSummary   = "summary"
	PromptQuestions = "questions"
	PromptCustom    = "custom"
)

var promptQueries = map[string]string{
	PromptSummary:   "Generate a concise, one-paragraph summary of this research paper.",
	PromptQuestions: "Generate 5 insightful study questions based on this paper, each with a detailed answer.",
}

// Upload is a file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Service dispatches document requests to the upstream clients.
type Service struct {
	Extractor extract.Client
	Answerer  llm.Answerer
	Store     search.Answerer
}

// ParseInvoice extracts entities from an image or PDF invoice.
func (s *Service) ParseInvoice(ctx context.Context, up Upload) ([]extract.Entity, error) {
	mimeType := extract.BaseMimeType(up.ContentType)
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return nil, apperr.InvalidInput(msgInvalidInvoiceType)
	}

	res, err := s.extract(ctx, &up, mimeType, extract.ModeEntities)
	if err != nil {
		telemetry.Error("documents.parse_invoice.failed", map[string]any{
			"file_name": up.FileName,
			"mime_type": mimeType,
			"error":     err,
		})
		return nil, apperr.UpstreamUnavailable(msgParserUnavailable, err)
	}
	if res.Entities == nil {
		return []extract.Entity{}, nil
	}
	return res.Entities, nil
}

// AnalyzeDocument answers a preset or custom question. With a file the answer is
// grounded on that file's text, otherwise on the managed store.
func (s *Service) AnalyzeDocument(ctx context.Context, promptType, customQuestion string, up *Upload) (string, error) {
	question, err := resolveQuestion(promptType, customQuestion)
	if err != nil {
		return "", err
	}

	if up == nil {
		answer, err := s.storeAnswer(ctx, question)
		if err != nil {
			telemetry.Error("documents.analyze.store_failed", map[string]any{
				"prompt_type": promptType,
				"error":       err,
			})
			return "", apperr.AssistantUnavailable(msgAssistantDown, err)
		}
		return answer, nil
	}

	mimeType := extract.BaseMimeType(up.ContentType)
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" && mimeType != "text/plain" {
		return "", apperr.InvalidInput(msgInvalidPaperType)
	}

	res, err := s.extract(ctx, up, mimeType, extract.ModeFullText)
	if err == nil {
		var answer string
		answer, err = s.documentAnswer(ctx, question, res.Text)
		if err == nil {
			return answer, nil
		}
	}
	telemetry.Error("documents.analyze.document_failed", map[string]any{
		"prompt_type": promptType,
		"file_name":   up.FileName,
		"mime_type":   mimeType,
		"error":       err,
	})
	return "", apperr.AssistantUnavailable(msgAssistantDown, err)
}

// Chat answers a free-text query from the managed store.
func (s *Service) Chat(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", apperr.InvalidInput(msgEmptyQuery)
	}
	answer, err := s.storeAnswer(ctx, query)
	if err != nil {
		telemetry.Error("documents.chat.failed", map[string]any{"error": err})
		return "", apperr.UpstreamUnavailable(msgChatFailed+err.Error(), err)
	}
	return answer, nil
}

func resolveQuestion(promptType, customQuestion string) (string, error) {
	if promptType == PromptCustom {
		if strings.TrimSpace(customQuestion) == "" {
			return "", apperr.InvalidInput(msgCustomRequired)
		}
		return customQuestion, nil
	}
	if q, ok := promptQueries[promptType]; ok {
		return q, nil
	}
	return "", apperr.InvalidInput(msgInvalidPromptType)
}

func (s *Service) extract(ctx context.Context, up *Upload, mimeType string, mode extract.Mode) (res extract.Result, err error) {
	if s.Extractor == nil {
		return extract.Result{}, ErrNotConfigured
	}
	start := time.Now()
	defer func() { metrics.ObserveUpstream("documentai", start, err) }()
	return s.Extractor.Extract(ctx, extract.Document{Content: up.Content, MimeType: mimeType}, mode)
}

func (s *Service) documentAnswer(ctx context.Context, question, text string) (answer string, err error) {
	if s.Answerer == nil {
		return "", ErrNotConfigured
	}
	start := time.Now()
	defer func() { metrics.ObserveUpstream("llm", start, err) }()
	return s.Answerer.Answer(ctx, question, text)
}

func (s *Service) storeAnswer(ctx context.Context, query string) (answer string, err error) {
	if s.Store == nil {
		return "", ErrNotConfigured
	}
	start := time.Now()
	defer func() { metrics.ObserveUpstream("discoveryengine", start, err) }()
	return s.Store.Answer(ctx, query)
}
