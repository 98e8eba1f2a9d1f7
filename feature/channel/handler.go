package channel

import (
	"team-sync/core/logger"
	"team-sync/core/operator"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the channel snapshot endpoints.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler over one server's local store.
func NewHandler(op *operator.Operator, log *zap.Logger) *Handler {
	return &Handler{store: NewStore(op), logger: log}
}

// RegisterRoutes registers the channel routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/channels")
	group.Get("/:id/info", h.HandleGetChannelInfo)
}

// HandleGetChannelInfo returns the extended info of one channel.
func (h *Handler) HandleGetChannelInfo(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	info, err := h.store.GetChannelInfo(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("Channel info query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if info == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "channel info not found"})
	}
	return c.JSON(info)
}
