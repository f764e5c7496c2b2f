package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/storage/models"
	"github.com/allerpredict/backend/internal/storage/sqlite"
	"github.com/allerpredict/backend/pkg/logger"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	db *sqlite.Client
}

func NewHistoryHandler(db *sqlite.Client) *HistoryHandler {
	return &HistoryHandler{
		db: db,
	}
}

func (h *HistoryHandler) HandleHistory(c *fiber.Ctx) error {
	if h.db == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "History storage is not configured",
		})
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.db.GetAnalysisHistory(limit)
	if err != nil {
		logger.Error("Failed to load analysis history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analysis history",
		})
	}

	if records == nil {
		records = []models.AnalysisRecord{}
	}

	return c.JSON(fiber.Map{
		"count":   len(records),
		"history": records,
	})
}

func (h *HistoryHandler) HandleFeedback(c *fiber.Ctx) error {
	if h.db == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Feedback storage is not configured",
		})
	}

	var req struct {
		AnalysisID string `json:"analysis_id"`
		Helpful    bool   `json:"helpful"`
		Comment    string `json:"comment"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.AnalysisID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "analysis_id is required",
		})
	}

	err := h.db.StoreFeedback(&models.Feedback{
		AnalysisID: req.AnalysisID,
		Helpful:    req.Helpful,
		Comment:    req.Comment,
	})
	if err != nil {
		logger.Error("Failed to store feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "recorded",
	})
}
