package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cognidoc-backend/internal/extract"
	"cognidoc-backend/internal/shared/server/form"
	"cognidoc-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/parse-invoice/", h.parseInvoice)
	rg.POST("/analyze-paper/", h.analyzePaper)
	rg.POST("/datastore_qa/", h.chat)
}

type entitiesResponse struct {
	Entities []extract.Entity `json:"entities"`
}

// AnswerResponse carries a generated answer.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) parseInvoice(c *gin.Context) {
	form.LimitBody(c, h.MaxUploadBytes)

	up, ok := h.readUpload(c, true)
	if !ok {
		return
	}

	entities, err := h.Svc.ParseInvoice(c.Request.Context(), *up)
	if err != nil {
		respond.Problem(c, err, msgParserUnavailable)
		return
	}
	respond.OK(c, entitiesResponse{Entities: entities})
}

func (h *Handler) analyzePaper(c *gin.Context) {
	form.LimitBody(c, h.MaxUploadBytes)

	up, ok := h.readUpload(c, false)
	if !ok {
		return
	}

	promptType, present := c.GetPostForm("prompt_type")
	if !present {
		respond.Error(c, http.StatusBadRequest, "invalid_input", msgPromptTypeRequired, nil)
		return
	}
	c.Set("promptType", promptType)

	answer, err := h.Svc.AnalyzeDocument(c.Request.Context(), promptType, c.PostForm("custom_question"), up)
	if err != nil {
		respond.Problem(c, err, msgAssistantDown)
		return
	}
	respond.OK(c, AnswerResponse{Answer: answer})
}

func (h *Handler) chat(c *gin.Context) {
	form.LimitBody(c, h.MaxUploadBytes)

	answer, err := h.Svc.Chat(c.Request.Context(), c.PostForm("query"))
	if err != nil {
		respond.Problem(c, err, msgChatFailed)
		return
	}
	respond.OK(c, AnswerResponse{Answer: answer})
}

// readUpload reads the "file" field. The returned upload is nil when the file is
// optional and absent. ok is false once an error response has been written.
func (h *Handler) readUpload(c *gin.Context, required bool) (*Upload, bool) {
	f, err := form.ReadFile(c, "file")
	switch {
	case err == nil:
	case errors.Is(err, form.ErrMissing) && !required:
		return nil, true
	case errors.Is(err, form.ErrMissing):
		respond.Error(c, http.StatusBadRequest, "invalid_input", msgFileRequired, nil)
		return nil, false
	case errors.Is(err, form.ErrTooLarge):
		respond.Error(c, http.StatusBadRequest, "invalid_input", msgBodyTooLarge, nil)
		return nil, false
	default:
		respond.Error(c, http.StatusBadRequest, "invalid_input", msgUnreadableFile, nil)
		return nil, false
	}

	c.Set("fileName", f.Name)
	return &Upload{FileName: f.Name, ContentType: f.ContentType, Content: f.Content}, true
}
