package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cognidoc-backend/internal/extract"
)

type formFile struct {
	name        string
	contentType string
	content     []byte
}

func newRouter(f *fixture, maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(f.svc, maxBytes).RegisterRoutes(&r.RouterGroup)
	return r
}

func postMultipart(t *testing.T, r http.Handler, path string, fields map[string]string, file *formFile) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return out
}

func assertDetail(t *testing.T, resp *httptest.ResponseRecorder, status int, detail string) {
	t.Helper()
	if resp.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	if body["detail"] != detail {
		t.Fatalf("expected detail %q, got %v", detail, body["detail"])
	}
	errBody, _ := body["error"].(map[string]any)
	if errBody["message"] != detail {
		t.Fatalf("expected error.message %q, got %v", detail, errBody["message"])
	}
}

func TestParseInvoiceEndpoint(t *testing.T) {
	f := newFixture()
	f.extractor.res = extract.Result{Entities: []extract.Entity{
		{Type: "invoice_id", Value: "INV-001", Confidence: 0.99},
		{Type: "supplier_name", Value: "Acme", Confidence: 0.87},
	}}
	r := newRouter(f, 1<<20)

	resp := postMultipart(t, r, "/parse-invoice/", nil, &formFile{name: "inv.pdf", contentType: "application/pdf", content: []byte("%PDF-1.7")})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got struct {
		Entities []extract.Entity `json:"entities"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Entities) != 2 || got.Entities[0].Value != "INV-001" || got.Entities[1].Confidence != 0.87 {
		t.Fatalf("unexpected entities: %+v", got.Entities)
	}
	if string(f.extractor.doc.Content) != "%PDF-1.7" {
		t.Fatalf("extractor got %q", f.extractor.doc.Content)
	}
}

func TestParseInvoiceEndpointEmptyEntities(t *testing.T) {
	f := newFixture()
	r := newRouter(f, 1<<20)

	resp := postMultipart(t, r, "/parse-invoice/", nil, &formFile{name: "a.png", contentType: "image/png", content: []byte("x")})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"entities":[]`) {
		t.Fatalf("expected empty entities array, got %s", resp.Body.String())
	}
}

func TestParseInvoiceEndpointErrors(t *testing.T) {
	t.Run("wrong type", func(t *testing.T) {
		f := newFixture()
		resp := postMultipart(t, newRouter(f, 1<<20), "/parse-invoice/", nil, &formFile{name: "a.txt", contentType: "text/plain", content: []byte("x")})
		assertDetail(t, resp, http.StatusBadRequest, "Invalid file type. Please upload an image or a PDF.")
		if f.extractor.calls != 0 {
			t.Fatalf("extractor must not be called")
		}
	})
	t.Run("missing file", func(t *testing.T) {
		f := newFixture()
		resp := postMultipart(t, newRouter(f, 1<<20), "/parse-invoice/", nil, nil)
		assertDetail(t, resp, http.StatusBadRequest, "file is required")
	})
	t.Run("upstream", func(t *testing.T) {
		f := newFixture()
		f.extractor.err = errors.New("secret upstream detail")
		resp := postMultipart(t, newRouter(f, 1<<20), "/parse-invoice/", nil, &formFile{name: "a.png", contentType: "image/png", content: []byte("x")})
		assertDetail(t, resp, http.StatusInternalServerError, "Parser not available")
		if strings.Contains(resp.Body.String(), "secret upstream detail") {
			t.Fatalf("upstream detail leaked: %s", resp.Body.String())
		}
	})
	t.Run("too large", func(t *testing.T) {
		f := newFixture()
		resp := postMultipart(t, newRouter(f, 256), "/parse-invoice/", nil, &formFile{name: "a.png", contentType: "image/png", content: bytes.Repeat([]byte("x"), 2048)})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.Code)
		}
		if f.extractor.calls != 0 {
			t.Fatalf("extractor must not be called")
		}
	})
}

func TestAnalyzePaperEndpointWithFile(t *testing.T) {
	f := newFixture()
	f.extractor.res = extract.Result{Text: "Results: accuracy 91%."}
	f.answerer.answer = "The accuracy is 91%."
	r := newRouter(f, 1<<20)

	resp := postMultipart(t, r, "/analyze-paper/", map[string]string{
		"prompt_type":     "custom",
		"custom_question": "What accuracy was reached?",
	}, &formFile{name: "paper.txt", contentType: "text/plain", content: []byte("Results: accuracy 91%.")})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := decodeBody(t, resp)["answer"]; got != "The accuracy is 91%." {
		t.Fatalf("unexpected answer %v", got)
	}
	if f.store.calls != 0 {
		t.Fatalf("store must not be called when a file is present")
	}
}

func TestAnalyzePaperEndpointWithoutFile(t *testing.T) {
	f := newFixture()
	r := newRouter(f, 1<<20)

	resp := postMultipart(t, r, "/analyze-paper/", map[string]string{"prompt_type": "summary"}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := decodeBody(t, resp)["answer"]; got != "store answer" {
		t.Fatalf("unexpected answer %v", got)
	}
	if f.extractor.calls != 0 || f.answerer.calls != 0 {
		t.Fatalf("document path must not run without a file")
	}
}

func TestAnalyzePaperEndpointURLEncoded(t *testing.T) {
	f := newFixture()
	r := newRouter(f, 1<<20)

	form := url.Values{"prompt_type": {"questions"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze-paper/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.HasPrefix(f.store.query, "Generate 5 insightful study questions") {
		t.Fatalf("unexpected store query %q", f.store.query)
	}
}

func TestAnalyzePaperEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		file   *formFile
		setup  func(f *fixture)
		status int
		detail string
	}{
		{name: "missing prompt type", fields: map[string]string{}, status: http.StatusBadRequest, detail: "prompt_type is required"},
		{name: "custom without question", fields: map[string]string{"prompt_type": "custom"}, status: http.StatusBadRequest, detail: "A custom question is required."},
		{name: "invalid prompt", fields: map[string]string{"prompt_type": "poem"}, status: http.StatusBadRequest, detail: "Invalid prompt type specified."},
		{
			name:   "invalid file type",
			fields: map[string]string{"prompt_type": "summary"},
			file:   &formFile{name: "a.zip", contentType: "application/zip", content: []byte("PK")},
			status: http.StatusBadRequest,
			detail: "Invalid file type for analysis. Please upload an image, PDF, or text file.",
		},
		{
			name:   "llm failure",
			fields: map[string]string{"prompt_type": "summary"},
			file:   &formFile{name: "a.pdf", contentType: "application/pdf", content: []byte("%PDF")},
			setup:  func(f *fixture) { f.answerer.err = errors.New("quota") },
			status: http.StatusInternalServerError,
			detail: "Assistant not available",
		},
		{
			name:   "store failure",
			fields: map[string]string{"prompt_type": "summary"},
			setup:  func(f *fixture) { f.store.err = errors.New("unavailable") },
			status: http.StatusInternalServerError,
			detail: "Assistant not available",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			resp := postMultipart(t, newRouter(f, 1<<20), "/analyze-paper/", tt.fields, tt.file)
			assertDetail(t, resp, tt.status, tt.detail)
		})
	}
}

func TestChatEndpoint(t *testing.T) {
	f := newFixture()
	f.store.answer = "Three papers discuss diffusion models."
	r := newRouter(f, 1<<20)

	resp := postMultipart(t, r, "/datastore_qa/", map[string]string{"query": "Which papers discuss diffusion?"}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := decodeBody(t, resp)["answer"]; got != "Three papers discuss diffusion models." {
		t.Fatalf("unexpected answer %v", got)
	}
}

func TestChatEndpointErrors(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		f := newFixture()
		resp := postMultipart(t, newRouter(f, 1<<20), "/datastore_qa/", map[string]string{"query": "   "}, nil)
		assertDetail(t, resp, http.StatusBadRequest, "Query cannot be empty.")
	})
	t.Run("upstream detail is reported", func(t *testing.T) {
		f := newFixture()
		f.store.err = errors.New("engine papers-app not found")
		resp := postMultipart(t, newRouter(f, 1<<20), "/datastore_qa/", map[string]string{"query": "q"}, nil)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", resp.Code)
		}
		detail, _ := decodeBody(t, resp)["detail"].(string)
		if !strings.HasPrefix(detail, "Failed to get chat response: ") || !strings.Contains(detail, "engine papers-app not found") {
			t.Fatalf("unexpected detail %q", detail)
		}
	})
}
