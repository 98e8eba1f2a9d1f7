package role

import (
	"team-sync/core/logger"
	"team-sync/core/operator"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the role snapshot endpoints.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler over one server's local store.
func NewHandler(op *operator.Operator, log *zap.Logger) *Handler {
	return &Handler{store: NewStore(op), logger: log}
}

// RegisterRoutes registers the role routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/roles", h.HandleListRoles)
}

// HandleListRoles returns every locally persisted role definition.
func (h *Handler) HandleListRoles(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	roles, err := h.store.ListRoles(c.Context())
	if err != nil {
		l.Error("Role list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(roles)
}
