package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/notes"
	"handnotes-backend/internal/shared/server/middleware"
	"handnotes-backend/internal/shared/server/respond"
	"handnotes-backend/internal/tasks"
)

// multipart framing allowance on top of the file ceiling
const formOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc   *Service
	Tasks *tasks.Service
	Notes *notes.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, taskSvc *tasks.Service, noteSvc *notes.Service) *Handler {
	return &Handler{Svc: svc, Tasks: taskSvc, Notes: noteSvc}
}

// RegisterRoutes attaches the document browsing routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
}

// RegisterUploadRoutes attaches the upload route, which callers usually rate limit.
func (h *Handler) RegisterUploadRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	in, cleanup, err := ReadUpload(c)
	if err != nil {
		respond.FromError(c, err, msgStoreFailed)
		return
	}
	defer cleanup()

	doc, err := h.Svc.Upload(c.Request.Context(), userID, in)
	if err != nil {
		respond.FromError(c, err, msgStoreFailed)
		return
	}
	c.Set("documentId", doc.ID)

	respond.Data(c, gin.H{
		"documentId": doc.ID,
		"imageUrl":   doc.ImageURL,
	})
}

// ReadUpload extracts the multipart "file" field from the request.
func ReadUpload(c *gin.Context) (Upload, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Upload{}, func() {}, ErrTooLarge
		}
		return Upload{}, func() {}, ErrNoFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Upload{}, func() {}, ErrNoFile
	}
	return Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        file,
	}, func() { _ = file.Close() }, nil
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.FromError(c, err, "Failed to list documents")
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, ToResponse(doc))
	}
	respond.Data(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	ctx := c.Request.Context()

	doc, err := h.Svc.Get(ctx, userID, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "Failed to fetch document")
		return
	}
	c.Set("documentId", doc.ID)

	taskList, err := h.Tasks.ListByDocument(ctx, userID, doc.ID)
	if err != nil {
		respond.FromError(c, err, "Failed to fetch document")
		return
	}
	noteList, err := h.Notes.ListByDocument(ctx, userID, doc.ID)
	if err != nil {
		respond.FromError(c, err, "Failed to fetch document")
		return
	}

	respond.Data(c, gin.H{
		"document": ToResponse(doc),
		"tasks":    taskList,
		"notes":    noteList,
	})
}
