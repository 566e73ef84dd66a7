package handlers

import (
	"doctransform/internal/dto"
	"doctransform/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	docService *service.DocumentService
	logger     *zap.Logger
}

func NewChatHandler(docService *service.DocumentService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		docService: docService,
		logger:     logger,
	}
}

// GetChatHistory godoc
// @Summary Get a document's chat history
// @Description Get the query/answer history for a document, oldest first
// @Tags chat
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {array} dto.ChatMessageResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id}/chat [get]
func (h *ChatHandler) GetChatHistory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid document ID")
	}

	messages, err := h.docService.ChatHistory(c.Context(), userID, documentID)
	if err != nil {
		return respondLookupError(c, h.logger, err,
			"Document not found or access denied", "Failed to load chat history")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}

// PostChatMessage godoc
// @Summary Append a chat message
// @Description Append a message to a document's chat history
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.ChatMessageRequest true "Chat message"
// @Security Bearer
// @Success 201 {object} dto.ChatMessageResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id}/chat [post]
func (h *ChatHandler) PostChatMessage(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid document ID")
	}

	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return respondError(c, fiber.StatusBadRequest, "Message content is required")
	}

	msg, err := h.docService.AddChatMessage(c.Context(), userID, documentID, req.Type, req.Content)
	if err != nil {
		return respondLookupError(c, h.logger, err,
			"Document not found or access denied", "Failed to save chat message")
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// ListJobs godoc
// @Summary List processing jobs
// @Description List the user's query processing jobs, newest first
// @Tags jobs
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.JobResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/jobs [get]
func (h *ChatHandler) ListJobs(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	jobs, err := h.docService.ListJobs(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Failed to list jobs")
	}

	return c.JSON(jobs)
}

// GetJob godoc
// @Summary Get a processing job
// @Description Get one processing job including its raw model completion
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Security Bearer
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/jobs/{id} [get]
func (h *ChatHandler) GetJob(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid job ID")
	}

	job, err := h.docService.GetJob(c.Context(), userID, jobID)
	if err != nil {
		return respondLookupError(c, h.logger, err,
			"Job not found or access denied", "Failed to load job")
	}

	return c.JSON(job)
}

// GetStats godoc
// @Summary Service statistics
// @Description Counts of documents and processing jobs with success rate
// @Tags stats
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.StatsResponse
// @Router /api/v1/stats [get]
func (h *ChatHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.docService.Stats(c.Context())
	if err != nil {
		h.logger.Error("Failed to fetch stats", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Failed to fetch stats")
	}

	return c.JSON(stats)
}
