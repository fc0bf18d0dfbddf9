// Package form reads uploaded files out of multipart requests.
package form

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissing    = errors.New("form file missing")
	ErrTooLarge   = errors.New("request body too large")
	ErrUnreadable = errors.New("form file unreadable")
)

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// LimitBody caps the request body at limit bytes. Non-positive limits are ignored.
func LimitBody(c *gin.Context, limit int64) {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
}

// ReadFile returns the file posted under field. A request that is not multipart at all
// is treated as having no file so urlencoded forms still reach the handler.
func ReadFile(c *gin.Context, field string) (*File, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, ErrMissing
		case errors.As(err, &maxErr), strings.Contains(err.Error(), "request body too large"):
			return nil, ErrTooLarge
		default:
			return nil, ErrUnreadable
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, ErrUnreadable
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, ErrUnreadable
	}

	return &File{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
