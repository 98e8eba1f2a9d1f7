package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature is a self-contained module that can register routes on the
// local snapshot API.
type Feature interface {
	// Name returns the feature identifier used in logs.
	Name() string
	// IsEnabled reports whether the feature should be loaded.
	IsEnabled() bool
	// Load registers the feature's routes and initializes it.
	Load(app fiber.Router) error
}

// Manager holds the registry of available features.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature to the manager.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// LoadAll loads every enabled feature, registering its routes on app.
func (m *Manager) LoadAll(app fiber.Router, logger *zap.Logger) error {
	for _, f := range m.features {
		if !f.IsEnabled() {
			logger.Info("Feature disabled", zap.String("feature", f.Name()))
			continue
		}
		if err := f.Load(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
		logger.Info("Feature loaded", zap.String("feature", f.Name()))
	}
	return nil
}
