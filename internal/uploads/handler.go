package uploads

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cognidoc-backend/internal/shared/server/form"
	"cognidoc-backend/internal/shared/server/respond"
)

// Handler exposes the indexing upload endpoint.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload-finetune/", h.upload)
}

type uploadResponse struct {
	Message string `json:"message"`
}

func (h *Handler) upload(c *gin.Context) {
	form.LimitBody(c, h.MaxUploadBytes)

	f, err := form.ReadFile(c, "file")
	if err != nil {
		msg := "unable to read file"
		switch {
		case errors.Is(err, form.ErrMissing):
			msg = "file is required"
		case errors.Is(err, form.ErrTooLarge):
			msg = "request body too large"
		}
		respond.Error(c, http.StatusBadRequest, "invalid_input", msg, nil)
		return
	}
	c.Set("fileName", f.Name)

	if _, err := h.Svc.Upload(c.Request.Context(), Upload{FileName: f.Name, ContentType: f.ContentType, Content: f.Content}); err != nil {
		respond.Problem(c, err, msgUploadFailed)
		return
	}
	respond.OK(c, uploadResponse{Message: fmt.Sprintf("'%s' File uploaded successfully.", f.Name)})
}
