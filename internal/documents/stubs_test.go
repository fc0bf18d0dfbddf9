package documents

import (
	"context"

	"cognidoc-backend/internal/extract"
)

type stubExtractor struct {
	calls int
	doc   extract.Document
	mode  extract.Mode
	res   extract.Result
	err   error
}

func (s *stubExtractor) Extract(ctx context.Context, doc extract.Document, mode extract.Mode) (extract.Result, error) {
	s.calls++
	s.doc = doc
	s.mode = mode
	return s.res, s.err
}

type stubAnswerer struct {
	calls    int
	question string
	text     string
	answer   string
	err      error
}

func (s *stubAnswerer) Answer(ctx context.Context, question, documentText string) (string, error) {
	s.calls++
	s.question = question
	s.text = documentText
	return s.answer, s.err
}

type stubStore struct {
	calls  int
	query  string
	answer string
	err    error
}

func (s *stubStore) Answer(ctx context.Context, query string) (string, error) {
	s.calls++
	s.query = query
	return s.answer, s.err
}

type fixture struct {
	extractor *stubExtractor
	answerer  *stubAnswerer
	store     *stubStore
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		extractor: &stubExtractor{},
		answerer:  &stubAnswerer{answer: "document answer"},
		store:     &stubStore{answer: "store answer"},
	}
	f.svc = &Service{Extractor: f.extractor, Answerer: f.answerer, Store: f.store}
	return f
}
