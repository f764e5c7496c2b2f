package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/agents"
	"github.com/allerpredict/backend/internal/analysis"
	"github.com/allerpredict/backend/pkg/logger"
)

type AnalyzeHandler struct {
	pipeline *agents.Pipeline
	engine   *analysis.Engine
}

func NewAnalyzeHandler(pipeline *agents.Pipeline, engine *analysis.Engine) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline: pipeline,
		engine:   engine,
	}
}

type analyzeRequest struct {
	ProductQuery string `json:"product_query"`
	UserContext  string `json:"user_context"`
}

func parseAnalyzeRequest(c *fiber.Ctx) (*analyzeRequest, error) {
	if body, ok := c.Locals("sanitized_body").(map[string]interface{}); ok {
		req := &analyzeRequest{}
		req.ProductQuery, _ = body["product_query"].(string)
		req.UserContext, _ = body["user_context"].(string)
		return req, nil
	}

	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// HandleAnalyze runs the full pipeline: catalog match, scoring, rendered
// report, and model-generated recommendations.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	req, err := parseAnalyzeRequest(c)
	if err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ProductQuery == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "product_query is required",
		})
	}

	outcome, err := h.pipeline.Run(c.Context(), req.ProductQuery, req.UserContext)
	if err != nil {
		logger.Error("Failed to analyze product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze product",
		})
	}

	return c.JSON(outcome)
}

// HandleAnalysis returns only the structured result, skipping report rendering
// and the recommendation step.
func (h *AnalyzeHandler) HandleAnalysis(c *fiber.Ctx) error {
	req, err := parseAnalyzeRequest(c)
	if err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ProductQuery == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "product_query is required",
		})
	}

	result, err := h.engine.Analyze(c.Context(), req.ProductQuery)
	if err != nil {
		logger.Error("Failed to analyze product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze product",
		})
	}

	return c.JSON(result)
}

// HandleSimpleAnalyze serves the flat legacy response shape older clients
// still expect. It is derived from the structured result directly.
func (h *AnalyzeHandler) HandleSimpleAnalyze(c *fiber.Ctx) error {
	req, err := parseAnalyzeRequest(c)
	if err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ProductQuery == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "product_query is required",
		})
	}

	result, err := h.engine.Analyze(c.Context(), req.ProductQuery)
	if err != nil {
		logger.Error("Failed to analyze product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze product",
		})
	}

	if !result.Found {
		return c.JSON(fiber.Map{
			"found":              false,
			"message":            result.Message,
			"detected_allergens": []string{},
			"risk_level":         string(result.RiskLevel),
			"ethical_score":      0,
			"recommendations":    []string{},
		})
	}

	return c.JSON(fiber.Map{
		"found":              true,
		"product_name":       result.ProductName,
		"detected_allergens": result.DetectedAllergens,
		"risk_level":         string(result.RiskLevel),
		"ethical_score":      result.EthicalScore,
		"recommendations":    result.Recommendations,
	})
}

// HandleQuickCheck answers whether a single allergen appears in a product's
// warnings or ingredients.
func (h *AnalyzeHandler) HandleQuickCheck(c *fiber.Ctx) error {
	var req struct {
		ProductName string `json:"product_name"`
		Allergen    string `json:"allergen"`
	}

	if body, ok := c.Locals("sanitized_body").(map[string]interface{}); ok {
		req.ProductName, _ = body["product_name"].(string)
		req.Allergen, _ = body["allergen"].(string)
	} else if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ProductName == "" || req.Allergen == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "product_name and allergen are required",
		})
	}

	check, err := h.engine.QuickCheck(c.Context(), req.ProductName, req.Allergen)
	if err != nil {
		logger.Error("Failed to run quick check", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to run quick check",
		})
	}

	return c.JSON(check)
}
