package account

import (
	"team-sync/core/logger"
	"team-sync/core/operator"
	"team-sync/feature/system"
	"team-sync/feature/user"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the current-user snapshot endpoints.
type Handler struct {
	userStore   *user.Store
	systemStore *system.Store
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler over one server's local store.
func NewHandler(op *operator.Operator, log *zap.Logger) *Handler {
	return &Handler{
		userStore:   user.NewStore(op),
		systemStore: system.NewStore(op),
		logger:      log,
	}
}

// RegisterRoutes registers the account routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/me", h.HandleGetMe)
}

// HandleGetMe returns the locally persisted current user.
func (h *Handler) HandleGetMe(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	userId, err := h.systemStore.CurrentUserId(c.Context())
	if err != nil {
		l.Error("Current user lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if userId == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no current user"})
	}

	u, err := h.userStore.GetUser(c.Context(), userId)
	if err != nil {
		l.Error("Current user query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if u == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "current user not persisted"})
	}

	return c.JSON(u)
}
