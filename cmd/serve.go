package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"team-sync/core/config"
	"team-sync/core/loader"
	"team-sync/core/logger"
	"team-sync/core/middleware/auth"
	"team-sync/core/middleware/rayid"

	"team-sync/feature/account"
	"team-sync/feature/channel"
	"team-sync/feature/role"
	"team-sync/feature/team"
	"team-sync/feature/user"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local snapshot over HTTP",
	Long:  `Starts the read-only snapshot API over the local store so other processes can query synced state while offline.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Open the local store and registry
		reg, serverURL, err := setupServer(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to set up server resources", zap.Error(err))
		}
		op, err := reg.GetOperator(serverURL)
		if err != nil {
			logg.Fatal("Failed to resolve operator", zap.Error(err))
		}
		logg = logger.WithServer(logg, serverURL)

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		avatars := setupAvatarCache(cmd.Context(), cfg.Storage, logg)
		mgr.Register(account.NewFeature(op, logg))
		mgr.Register(user.NewFeature(op, avatars, logg))
		mgr.Register(team.NewFeature(op, logg))
		mgr.Register(channel.NewFeature(op, logg))
		mgr.Register(role.NewFeature(op, logg))

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())

		// Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// Load Features
		if err := mgr.LoadAll(app, logg); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// Start Server
		go func() {
			logg.Info("Starting snapshot API", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
