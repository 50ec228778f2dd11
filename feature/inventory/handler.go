package inventory

import (
	"errors"
	"strings"

	"inventory-tracker/core/logger"
	"inventory-tracker/core/utils"
	"inventory-tracker/feature/inventory/models"
	"inventory-tracker/feature/inventory/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for inventory status.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Referenced for Swagger
	var _ = models.ItemDetail{}
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Get("/availability", h.HandleAvailability)
	group.Get("/items/:id", h.HandleItem)
	group.Get("/cycles", h.HandleCycles)
}

// HandleAvailability reports available items per location.
// @Summary Availability per Location
// @Description Counts active items listed in each location, from the item_availability view.
// @Tags inventory
// @Produce json
// @Success 200 {array} models.LocationAvailability
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/availability [get]
func (h *Handler) HandleAvailability(c *fiber.Ctx) error {
	rows, err := h.service.Availability(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Availability query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rows)
}

// HandleItem returns a single item.
// @Summary Item Detail
// @Description Returns an item with its metadata, locations and lifecycle timestamps.
// @Tags inventory
// @Produce json
// @Param id path string true "Item identifier (VIN)"
// @Success 200 {object} models.ItemDetail
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/items/{id} [get]
func (h *Handler) HandleItem(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	detail, err := h.service.Item(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found", "id": id})
		}
		logger.WithRayID(h.service.logger, c).Error("Item query failed", zap.String("item_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}

// HandleCycles lists recent cycle reports.
// @Summary Recent Cycles
// @Description Lists the most recent collection cycles, newest first.
// @Tags inventory
// @Produce json
// @Param limit query int false "Maximum number of cycles (default 20, max 100)"
// @Success 200 {array} models.CycleRun
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/cycles [get]
func (h *Handler) HandleCycles(c *fiber.Ctx) error {
	limit := utils.ToInt(c.Query("limit"))
	runs, err := h.service.Cycles(c.Context(), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Cycle query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}
