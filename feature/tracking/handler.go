package tracking

import (
	"freight-relay/core/apperr"
	"freight-relay/core/logger"
	"freight-relay/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for live tracking.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the tracking routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/tracking")
	group.Post("/location", h.HandleLocation)
	group.Get("/latest", h.HandleLatest)
	group.Get("/history", h.HandleHistory)
}

// HandleLocation receives a live position from SKY.
// @Summary Push Location
// @Description Stores a live position. FoId, Latitude, Longitude and Timestamp are required; DriverId defaults to DRIVER_001.
// @Tags tracking
// @Accept json
// @Param location body LocationPayload true "Position"
// @Success 204 "Stored"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /api/tracking/location [post]
func (h *Handler) HandleLocation(c *fiber.Ctx) error {
	var p LocationPayload
	if err := c.BodyParser(&p); err != nil {
		return server.RespondError(c, apperr.Validation("body", err.Error()))
	}
	if _, err := h.service.Record(c.Context(), p); err != nil {
		if !apperr.IsValidation(err) {
			logger.WithRayID(h.service.logger, c).Error("Failed to store position", zap.Error(err))
		}
		return server.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleLatest returns the last position of an order.
// @Summary Latest Location
// @Description Returns the last position, or an empty object when none is known.
// @Tags tracking
// @Produce json
// @Param FoId query string true "Freight order identifier"
// @Success 200 {object} Point "Position"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /api/tracking/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	point, err := h.service.Latest(c.Context(), c.Query("FoId"))
	if err != nil {
		return server.RespondError(c, err)
	}
	if point == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(point)
}

// HandleHistory returns the recent positions of an order.
// @Summary Location History
// @Tags tracking
// @Produce json
// @Param FoId query string true "Freight order identifier"
// @Param limit query int false "Number of points (1-2000, default 300)"
// @Success 200 {array} Point "Positions, oldest first"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /api/tracking/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	points, err := h.service.History(c.Context(), c.Query("FoId"), c.QueryInt("limit", DefaultHistoryLimit))
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.JSON(points)
}
