package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/allerpredict/backend/internal/catalog"
)

type CatalogHandler struct {
	store *catalog.Store
}

func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{
		store: store,
	}
}

// productSummary is the listing shape: identity fields only, no analysis data.
type productSummary struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
}

func summarize(products []catalog.Product) []productSummary {
	summaries := make([]productSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, productSummary{
			Name:     p.Name,
			Brand:    p.Brand,
			Category: p.Category,
		})
	}
	return summaries
}

func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	summaries := summarize(h.store.Products())

	return c.JSON(fiber.Map{
		"count":    len(summaries),
		"products": summaries,
	})
}

func (h *CatalogHandler) HandleProductsByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "category is required",
		})
	}

	summaries := summarize(h.store.ByCategory(category))

	return c.JSON(fiber.Map{
		"category": category,
		"count":    len(summaries),
		"products": summaries,
	})
}
