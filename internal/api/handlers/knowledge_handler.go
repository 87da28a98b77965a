package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/dto"
	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
)

type KnowledgeHandler struct {
	kbService *service.KnowledgeService
	logger    *zap.Logger
}

func NewKnowledgeHandler(kbService *service.KnowledgeService, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		kbService: kbService,
		logger:    logger,
	}
}

// List godoc
// @Summary List knowledge base entries
// @Tags knowledge-base
// @Produce json
// @Param category_id query int false "Filter by category"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Security Bearer
// @Success 200 {object} dto.EntryListResponse
// @Failure 401 {object} map[string]string
// @Router /api/ai-support/kb [get]
func (h *KnowledgeHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid category id",
			})
		}
		categoryID = &id
	}

	entries, total, err := h.kbService.List(c.Context(), categoryID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list knowledge base entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list entries",
		})
	}

	resp := dto.EntryListResponse{
		Entries: make([]dto.EntryResponse, 0, len(entries)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, dto.NewEntryResponse(entry))
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get a knowledge base entry
// @Tags knowledge-base
// @Produce json
// @Param id path int true "Entry id"
// @Security Bearer
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string
// @Router /api/ai-support/kb/{id} [get]
func (h *KnowledgeHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry id",
		})
	}

	entry, err := h.kbService.Get(c.Context(), id)
	if err != nil {
		return h.entryError(c, err, "Failed to load entry")
	}
	return c.JSON(dto.NewEntryResponse(entry))
}

// Create godoc
// @Summary Create a knowledge base entry
// @Tags knowledge-base
// @Accept json
// @Produce json
// @Param request body dto.CreateEntryRequest true "Entry"
// @Security Bearer
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string
// @Router /api/ai-support/kb [post]
func (h *KnowledgeHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	entry := &models.KnowledgeEntry{
		Type:       models.KnowledgeType(req.Type),
		Question:   req.Question,
		Answer:     req.Answer,
		Keywords:   req.Keywords,
		CategoryID: req.CategoryID,
	}
	if err := h.kbService.Create(c.Context(), entry); err != nil {
		return h.entryError(c, err, "Failed to create entry")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewEntryResponse(entry))
}

// Update godoc
// @Summary Update a knowledge base entry
// @Tags knowledge-base
// @Accept json
// @Produce json
// @Param id path int true "Entry id"
// @Param request body dto.UpdateEntryRequest true "Entry"
// @Security Bearer
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string
// @Router /api/ai-support/kb/{id} [put]
func (h *KnowledgeHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry id",
		})
	}

	var req dto.UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Partial update: load the stored entry and apply only the fields the
	// client sent.
	entry, err := h.kbService.Get(c.Context(), id)
	if err != nil {
		return h.entryError(c, err, "Failed to load entry")
	}
	if req.Type != nil {
		entry.Type = models.KnowledgeType(*req.Type)
	}
	if req.Question != nil {
		entry.Question = *req.Question
	}
	if req.Answer != nil {
		entry.Answer = *req.Answer
	}
	if req.Keywords != nil {
		entry.Keywords = *req.Keywords
	}
	if req.CategoryID != nil {
		entry.CategoryID = req.CategoryID
	}

	if err := h.kbService.Update(c.Context(), entry); err != nil {
		return h.entryError(c, err, "Failed to update entry")
	}
	return c.JSON(dto.NewEntryResponse(entry))
}

// Delete godoc
// @Summary Delete a knowledge base entry
// @Tags knowledge-base
// @Produce json
// @Param id path int true "Entry id"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/ai-support/kb/{id} [delete]
func (h *KnowledgeHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry id",
		})
	}

	if err := h.kbService.Delete(c.Context(), id); err != nil {
		return h.entryError(c, err, "Failed to delete entry")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Categories godoc
// @Summary List knowledge base categories
// @Tags knowledge-base
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CategoryResponse
// @Router /api/ai-support/kb/categories [get]
func (h *KnowledgeHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.kbService.Categories(c.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list categories",
		})
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, dto.NewCategoryResponse(category))
	}
	return c.JSON(resp)
}

func (h *KnowledgeHandler) entryError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Entry not found",
		})
	case errors.Is(err, service.ErrInvalidEntry):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Entry must have an answer, and qa entries require a question",
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
