package user

import (
	"team-sync/core/operator"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the user feature over one server's local store.
// avatar may be nil when the object cache is disabled.
func NewFeature(op *operator.Operator, avatar *AvatarCache, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(op, avatar, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "user"
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
