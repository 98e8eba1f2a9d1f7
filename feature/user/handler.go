package user

import (
	"io"

	"team-sync/core/logger"
	"team-sync/core/operator"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Handler serves the user snapshot endpoints.
type Handler struct {
	store  *Store
	avatar *AvatarCache
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler over one server's local store.
// avatar may be nil; the image route is then not registered.
func NewHandler(op *operator.Operator, avatar *AvatarCache, log *zap.Logger) *Handler {
	return &Handler{store: NewStore(op), avatar: avatar, logger: log}
}

// RegisterRoutes registers the user routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/users")
	group.Get("/", h.HandleListUsers)
	group.Get("/:id", h.HandleGetUser)
	group.Get("/:id/preferences", h.HandleGetPreferences)
	if h.avatar != nil {
		group.Get("/:id/image", h.HandleGetAvatar)
	}
}

// HandleListUsers returns every locally persisted user.
func (h *Handler) HandleListUsers(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	users, err := h.store.ListUsers(c.Context())
	if err != nil {
		l.Error("User list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(users)
}

// HandleGetUser returns one locally persisted user.
func (h *Handler) HandleGetUser(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	u, err := h.store.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("User query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if u == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(u)
}

// HandleGetAvatar streams a cached avatar image from the object cache.
func (h *Handler) HandleGetAvatar(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	obj, err := h.avatar.client.GetObject(c.Context(), h.avatar.bucket, avatarKey(c.Params("id")), minio.GetObjectOptions{})
	if err != nil {
		l.Error("Avatar fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "avatar not cached"})
	}
	c.Set("Content-Type", "image/png")
	return c.Send(data)
}

// HandleGetPreferences returns the preference rows of one user.
func (h *Handler) HandleGetPreferences(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	prefs, err := h.store.GetPreferences(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("Preference query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(prefs)
}
