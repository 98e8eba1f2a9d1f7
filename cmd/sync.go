package cmd

import (
	"context"
	"fmt"
	"os"

	"team-sync/core/config"
	"team-sync/core/logger"
	"team-sync/core/storage"
	"team-sync/feature/account"
	"team-sync/feature/user"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncChannelIds []string

// syncCmd refreshes the current user and channel member profiles.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the current user and channel member profiles",
	Long: `Fetches the current user profile and, for each channel given with
--channel, the member profiles of that channel. Results are committed
into the local store. Channels that fail to fetch are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSync(cmd.Context())
	},
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncChannelIds, "channel", nil, "channel id to refresh profiles for (repeatable)")
	RootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context) {
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
	profile, err := svc.FetchMe(ctx, serverURL, false)
	if err != nil {
		logg.Fatal("Failed to fetch current user", zap.Error(err))
	}
	logg.Info("Refreshed current user", zap.String("user_id", profile.Id))

	if len(syncChannelIds) == 0 {
		return
	}

	syncer := user.NewSyncer(reg, logg, svc.CheckForExpiredSession)
	results, err := syncer.FetchProfilesPerChannels(ctx, serverURL, syncChannelIds, profile.Id, false)
	if err != nil {
		logg.Fatal("Failed to refresh channel profiles", zap.Error(err))
	}

	cache := setupAvatarCache(ctx, cfg.Storage, logg)

	for _, res := range results {
		if res.Err != nil {
			logg.Warn("Channel profile refresh failed",
				zap.String("channel_id", res.ChannelId),
				zap.Error(res.Err))
			continue
		}
		logg.Info("Refreshed channel profiles",
			zap.String("channel_id", res.ChannelId),
			zap.Int("count", len(res.Users)))

		for _, p := range res.Users {
			if err := syncer.SyncProfileImage(ctx, serverURL, p.Id, p.LastPictureUpdate, cache); err != nil {
				logg.Warn("Avatar sync failed",
					zap.String("user_id", p.Id),
					zap.Error(err))
			}
		}
	}
}

// setupAvatarCache creates the object cache when storage is enabled,
// creating the bucket on first use. Returns nil when disabled or
// unreachable; avatar sync is then skipped.
func setupAvatarCache(ctx context.Context, cfg storage.Config, logg *zap.Logger) *user.AvatarCache {
	if !cfg.Enabled {
		return nil
	}
	sc, err := storage.NewClient(cfg)
	if err != nil {
		logg.Warn("Avatar cache unavailable", zap.Error(err))
		return nil
	}
	exists, err := sc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		logg.Warn("Avatar cache unavailable", zap.Error(err))
		return nil
	}
	if !exists {
		if err := sc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			logg.Warn("Failed to create avatar bucket", zap.Error(err))
			return nil
		}
	}
	return user.NewAvatarCache(sc, cfg.Bucket)
}
