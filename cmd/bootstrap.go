package cmd

import (
	"context"
	"fmt"
	"os"

	"team-sync/core/config"
	"team-sync/core/logger"
	"team-sync/feature/account"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// bootstrapCmd runs the full session bootstrap (loadMe) once.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Bootstrap full session state from the server",
	Long: `Fetches the current user, teams, memberships, unread counters,
preferences, client config, license and role definitions, and commits
them into the local store in one atomic batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBootstrap(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(ctx context.Context) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logg.Sync()

	reg, serverURL, err := setupServer(cfg, logg)
	if err != nil {
		logg.Fatal("Failed to set up server resources", zap.Error(err))
	}

	svc := account.NewService(reg, logg, forcedLogout(reg, logg))
	currentUser, err := svc.LoadMe(ctx, serverURL, account.LoadMeOptions{
		DeviceToken: cfg.Remote.DeviceToken,
	})
	if err != nil {
		logg.Fatal("Session bootstrap failed", zap.Error(err))
	}

	logg.Info("Bootstrap complete",
		zap.String("user_id", currentUser.Id),
		zap.String("username", currentUser.Username))
}
