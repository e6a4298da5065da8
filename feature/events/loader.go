package events

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	intake  *Intake
	handler *Handler
}

// NewFeature creates the events feature. queue may be nil.
func NewFeature(intake *Intake, queue Enqueuer, logger *zap.Logger) *Feature {
	return &Feature{intake: intake, handler: NewHandler(intake, queue, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "events"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
