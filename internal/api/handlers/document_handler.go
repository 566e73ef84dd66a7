package handlers

import (
	"errors"
	"io"

	"doctransform/internal/extract"
	"doctransform/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService    *service.DocumentService
	maxUploadSize int64
	logger        *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, maxUploadSize int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:    docService,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// UploadDocument godoc
// @Summary Upload a document
// @Description Upload a PDF, DOCX, or image; its text is extracted at upload time
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file (pdf, docx, doc, png, jpg, jpeg, gif, bmp, tiff)"
// @Security Bearer
// @Success 201 {object} dto.UploadDocumentResponse
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/documents/upload [post]
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "File is required")
	}

	// Size cap is enforced before any extraction work starts
	if file.Size > h.maxUploadSize {
		return respondError(c, fiber.StatusRequestEntityTooLarge, "File exceeds the maximum upload size")
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Failed to open file")
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, h.maxUploadSize+1))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Failed to read file")
	}
	if int64(len(content)) > h.maxUploadSize {
		return respondError(c, fiber.StatusRequestEntityTooLarge, "File exceeds the maximum upload size")
	}

	doc, err := h.docService.Upload(c.Context(), userID, content, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		var extractErr *extract.Error
		if errors.As(err, &extractErr) {
			// The kind tells the user whether to fix the file or the host
			status := fiber.StatusUnprocessableEntity
			if extractErr.Kind == extract.KindUnsupportedFormat {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{
				"error": extractErr.Detail,
				"kind":  string(extractErr.Kind),
			})
		}
		h.logger.Error("Failed to upload document", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Failed to upload document")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"document": doc,
	})
}

// QueryDocument godoc
// @Summary Query a document
// @Description Run a natural-language query against a document's extracted text
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.QueryRequest true "Query request"
// @Security Bearer
// @Success 200 {object} dto.QueryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/documents/{id}/query [post]
func (h *DocumentHandler) QueryDocument(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid document ID")
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.docService.Query(c.Context(), userID, documentID, req.Query)
	if err != nil {
		if errors.Is(err, service.ErrModelUnavailable) {
			return respondError(c, fiber.StatusServiceUnavailable, "AI service temporarily unavailable, please retry later")
		}
		return respondLookupError(c, h.logger, err,
			"Document not found or access denied", "Failed to process query")
	}

	return c.JSON(resp)
}

// ListDocuments godoc
// @Summary List user's documents
// @Description Get a list of user's uploaded documents
// @Tags documents
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.DocumentResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/documents [get]
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	docs, err := h.docService.ListDocuments(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Failed to list documents")
	}

	return c.JSON(docs)
}

// GetDocument godoc
// @Summary Get a document
// @Description Get a document with its extracted text
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid document ID")
	}

	doc, err := h.docService.GetDocument(c.Context(), userID, documentID)
	if err != nil {
		return respondLookupError(c, h.logger, err,
			"Document not found or access denied", "Failed to load document")
	}

	return c.JSON(doc)
}
