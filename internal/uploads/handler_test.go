package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"cognidoc-backend/internal/shared/storage/object/local"
)

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, 1<<20).RegisterRoutes(&r.RouterGroup)
	return r
}

func postFile(t *testing.T, r http.Handler, name, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if name != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload-finetune/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
	return out
}

func TestUploadEndpointWritesToLocalStore(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{Store: local.New(dir), Destination: dir}

	resp := postFile(t, newRouter(svc), "survey.pdf", "application/pdf", []byte("%PDF-1.5"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := decode(t, resp)["message"]; got != "'survey.pdf' File uploaded successfully." {
		t.Fatalf("unexpected message %v", got)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "upload", "*-survey.pdf"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one stored object, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read stored object: %v", err)
	}
	if string(data) != "%PDF-1.5" {
		t.Fatalf("stored content = %q", data)
	}
}

func TestUploadEndpointMissingBucket(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	svc := &Service{Store: local.New(dir), Destination: dir}

	resp := postFile(t, newRouter(svc), "a.txt", "text/plain", []byte("x"))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}
	want := "GCS bucket '" + dir + "' not found. Please create it and grant permissions."
	if got := decode(t, resp)["detail"]; got != want {
		t.Fatalf("detail = %v, want %q", got, want)
	}
}

func TestUploadEndpointNotConfigured(t *testing.T) {
	store := &stubStore{}
	svc := &Service{Store: store, Destination: "REPLACE_ME"}

	resp := postFile(t, newRouter(svc), "a.txt", "text/plain", []byte("x"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if got := decode(t, resp)["detail"]; got != "GCS bucket for fine-tuning is not configured on the server." {
		t.Fatalf("unexpected detail %v", got)
	}
	if store.calls != 0 {
		t.Fatalf("store must not be called")
	}
}

func TestUploadEndpointMissingFile(t *testing.T) {
	svc := &Service{Store: &stubStore{}, Destination: "papers"}

	resp := postFile(t, newRouter(svc), "", "", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
