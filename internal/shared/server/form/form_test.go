package form

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func multipartBody(t *testing.T, field, name, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func newContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestReadFile(t *testing.T) {
	body, ct := multipartBody(t, "file", "invoice.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)

	f, err := ReadFile(newContext(req), "file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "invoice.pdf" || f.ContentType != "application/pdf" || string(f.Content) != "%PDF-1.4" {
		t.Fatalf("unexpected file: %+v", f)
	}
}

func TestReadFileMissing(t *testing.T) {
	body, ct := multipartBody(t, "other", "a.txt", "text/plain", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)

	if _, err := ReadFile(newContext(req), "file"); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestReadFileURLEncodedIsMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("prompt_type=summary"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c := newContext(req)

	if _, err := ReadFile(c, "file"); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if got := c.PostForm("prompt_type"); got != "summary" {
		t.Fatalf("form value lost: %q", got)
	}
}

func TestReadFileTooLarge(t *testing.T) {
	body, ct := multipartBody(t, "file", "big.pdf", "application/pdf", bytes.Repeat([]byte("a"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	c := newContext(req)
	LimitBody(c, 512)

	if _, err := ReadFile(c, "file"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}
