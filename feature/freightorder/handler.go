package freightorder

import (
	"freight-relay/core/logger"
	"freight-relay/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for freight orders.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the freight order routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/freight-orders")
	group.Post("/sync", h.HandleSync)
	group.Get("/:foId", h.HandleGet)
	group.Post("/:foId/enrich", h.HandleEnrich)
}

// HandleGet returns one freight order from the store.
// @Summary Get Freight Order
// @Description Returns the stored freight order. Padded and normalized identifiers are both accepted.
// @Tags freight-orders
// @Produce json
// @Param foId path string true "Freight order identifier"
// @Success 200 {object} models.FreightOrder "Freight Order"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/freight-orders/{foId} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	order, err := h.service.GetOrder(c.Context(), c.Params("foId"))
	if err != nil {
		if server.StatusFor(err) >= fiber.StatusInternalServerError {
			l.Error("Failed to read freight order", zap.String("fo_id", c.Params("foId")), zap.Error(err))
		}
		return server.RespondError(c, err)
	}
	return c.JSON(order)
}

// HandleSync runs a sync pass now.
// @Summary Run Sync Pass
// @Description Pulls master and enrichment data from TM. Joins the running pass if one is in flight.
// @Tags freight-orders
// @Produce json
// @Success 200 {object} reconcile.PassResult "Pass Result"
// @Failure 502 {object} map[string]string "TM unavailable"
// @Router /api/freight-orders/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Manual sync pass requested")

	result, err := h.service.RunSync(c.Context())
	if err != nil {
		l.Error("Manual sync pass failed", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":               result.ID,
		"count":            result.Processed,
		"processed":        result.Processed,
		"fetched":          result.Fetched,
		"enriched":         result.Enriched,
		"skipped":          result.Skipped,
		"enrichment_error": result.EnrichmentError,
		"failures":         result.Failures,
		"shared":           result.Shared,
		"duration_ms":      result.Duration().Milliseconds(),
	})
}

// HandleEnrich refreshes the enrichment of one order.
// @Summary Enrich Freight Order
// @Description Fetches the SkyPlusFields row of one order from TM and applies it update-only.
// @Tags freight-orders
// @Produce json
// @Param foId path string true "Freight order identifier"
// @Success 200 {object} map[string]bool "Update result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "TM unavailable"
// @Router /api/freight-orders/{foId}/enrich [post]
func (h *Handler) HandleEnrich(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	updated, err := h.service.Enrich(c.Context(), c.Params("foId"))
	if err != nil {
		l.Error("Enrichment failed", zap.String("fo_id", c.Params("foId")), zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}
