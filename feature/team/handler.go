package team

import (
	"team-sync/core/logger"
	"team-sync/core/operator"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the team snapshot endpoints.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler over one server's local store.
func NewHandler(op *operator.Operator, log *zap.Logger) *Handler {
	return &Handler{store: NewStore(op), logger: log}
}

// RegisterRoutes registers the team routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/teams")
	group.Get("/", h.HandleListTeams)
	group.Get("/unreads", h.HandleListMyTeams)
}

// HandleListTeams returns every locally persisted team.
func (h *Handler) HandleListTeams(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	teams, err := h.store.ListTeams(c.Context())
	if err != nil {
		l.Error("Team list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(teams)
}

// HandleListMyTeams returns the derived my-team rows (roles plus unread
// counters).
func (h *Handler) HandleListMyTeams(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	myTeams, err := h.store.ListMyTeams(c.Context())
	if err != nil {
		l.Error("My-team list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(myTeams)
}
