package events

import (
	"context"

	"freight-relay/core/apperr"
	"freight-relay/core/logger"
	"freight-relay/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Enqueuer schedules background event syncs. *queue.Client implements it.
type Enqueuer interface {
	Enabled() bool
	EnqueueSyncOrderEvents(ctx context.Context, foID string) (string, error)
}

// Handler handles HTTP requests for tracking events.
type Handler struct {
	intake *Intake
	queue  Enqueuer
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler. queue may be nil.
func NewHandler(intake *Intake, queue Enqueuer, logger *zap.Logger) *Handler {
	return &Handler{intake: intake, queue: queue, logger: logger}
}

// RegisterRoutes registers the event routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/event", h.HandleEvent)
	app.Post("/delay", h.HandleDelay)
	app.Post("/pod", h.HandleProofOfDelivery)
	app.Post("/unloading", h.HandleUnloading)

	group := app.Group("/events")
	group.Get("/", h.HandleSyncAndList)
	group.Get("/stored", h.HandleStored)
	group.Post("/sync/:foId", h.HandleScheduleSync)
}

// HandleEvent records a SKY event and forwards it to TM.
// @Summary Submit Event
// @Description Records a tracking event pushed by SKY and forwards it to TM. FoId, Action and StopId are required; ETA must be YYYYMMDDHHMMSS when present.
// @Tags events
// @Accept json
// @Produce json
// @Param event body EventPayload true "Event"
// @Success 200 {object} SubmitResult "Stored event and TM answer"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "TM rejected the event"
// @Router /api/event [post]
func (h *Handler) HandleEvent(c *fiber.Ctx) error {
	var p EventPayload
	if err := c.BodyParser(&p); err != nil {
		return server.RespondError(c, apperr.Validation("body", err.Error()))
	}
	res, err := h.intake.SubmitEvent(c.Context(), p)
	return h.respond(c, "event", res, err)
}

// HandleDelay forwards a delay to TM and records it.
// @Summary Submit Delay
// @Description Forwards a delay to TM and records it once accepted. ETA is required in YYYYMMDDHHMMSS.
// @Tags events
// @Accept json
// @Produce json
// @Param delay body DelayPayload true "Delay"
// @Success 200 {object} SubmitResult "Stored event and TM answer"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "TM rejected the delay"
// @Router /api/delay [post]
func (h *Handler) HandleDelay(c *fiber.Ctx) error {
	var p DelayPayload
	if err := c.BodyParser(&p); err != nil {
		return server.RespondError(c, apperr.Validation("body", err.Error()))
	}
	res, err := h.intake.SubmitDelay(c.Context(), p)
	return h.respond(c, "delay", res, err)
}

// HandleProofOfDelivery records a proof of delivery and forwards it to TM.
// @Summary Submit Proof Of Delivery
// @Tags events
// @Accept json
// @Produce json
// @Param pod body ProofOfDeliveryPayload true "Proof of delivery"
// @Success 200 {object} SubmitResult "Stored event and TM answer"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "TM rejected the proof of delivery"
// @Router /api/pod [post]
func (h *Handler) HandleProofOfDelivery(c *fiber.Ctx) error {
	var p ProofOfDeliveryPayload
	if err := c.BodyParser(&p); err != nil {
		return server.RespondError(c, apperr.Validation("body", err.Error()))
	}
	res, err := h.intake.SubmitProofOfDelivery(c.Context(), p)
	return h.respond(c, "pod", res, err)
}

// HandleUnloading records an unloading event and forwards it to TM.
// @Summary Submit Unloading
// @Tags events
// @Accept json
// @Produce json
// @Param unloading body UnloadingPayload true "Unloading"
// @Success 200 {object} SubmitResult "Stored event and TM answer"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "TM rejected the unloading"
// @Router /api/unloading [post]
func (h *Handler) HandleUnloading(c *fiber.Ctx) error {
	var p UnloadingPayload
	if err := c.BodyParser(&p); err != nil {
		return server.RespondError(c, apperr.Validation("body", err.Error()))
	}
	res, err := h.intake.SubmitUnloading(c.Context(), p)
	return h.respond(c, "unloading", res, err)
}

// HandleSyncAndList pulls the TM feed of one order and returns the stored view.
// @Summary Sync And List Events
// @Description Pulls the TM event feed of the order, stores new events and returns every stored event, oldest report first.
// @Tags events
// @Produce json
// @Param foId query string true "Freight order identifier"
// @Success 200 {array} models.TrackingEvent "Stored events"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "TM unavailable"
// @Router /api/events [get]
func (h *Handler) HandleSyncAndList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	res, err := h.intake.SyncEventsForOrder(c.Context(), c.Query("foId"))
	if err != nil {
		l.Error("Events sync failed", zap.String("fo_id", c.Query("foId")), zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(res.Events)
}

// HandleStored returns the stored events of one order.
// @Summary List Stored Events
// @Tags events
// @Produce json
// @Param foId query string true "Freight order identifier"
// @Success 200 {array} models.TrackingEvent "Stored events"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /api/events/stored [get]
func (h *Handler) HandleStored(c *fiber.Ctx) error {
	events, err := h.intake.StoredEvents(c.Context(), c.Query("foId"))
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.JSON(events)
}

// HandleScheduleSync syncs one order in the background, or inline when the queue is off.
// @Summary Schedule Event Sync
// @Tags events
// @Produce json
// @Param foId path string true "Freight order identifier"
// @Success 200 {object} SyncResult "Inline sync result"
// @Success 202 {object} map[string]string "Queued task"
// @Failure 502 {object} map[string]string "TM unavailable"
// @Router /api/events/sync/{foId} [post]
func (h *Handler) HandleScheduleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	foID := c.Params("foId")

	if h.queue != nil && h.queue.Enabled() {
		id, err := h.queue.EnqueueSyncOrderEvents(c.Context(), foID)
		if err != nil {
			l.Error("Failed to enqueue event sync", zap.String("fo_id", foID), zap.Error(err))
			return server.RespondError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": id, "fo_id": foID})
	}

	res, err := h.intake.SyncEventsForOrder(c.Context(), foID)
	if err != nil {
		l.Error("Events sync failed", zap.String("fo_id", foID), zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) respond(c *fiber.Ctx, kind string, res *SubmitResult, err error) error {
	if err != nil {
		l := logger.WithRayID(h.logger, c)
		if apperr.IsValidation(err) {
			l.Warn("Rejected submission", zap.String("kind", kind), zap.Error(err))
		} else {
			l.Error("Submission failed", zap.String("kind", kind), zap.Error(err))
		}
		return server.RespondError(c, err)
	}
	return c.JSON(res)
}
