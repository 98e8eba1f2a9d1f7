package cmd

import (
	"context"
	"fmt"

	"team-sync/core/client"
	"team-sync/core/config"
	"team-sync/core/database"
	"team-sync/core/operator"
	"team-sync/core/registry"
	channelmodels "team-sync/feature/channel/models"
	rolemodels "team-sync/feature/role/models"
	systemmodels "team-sync/feature/system/models"
	teammodels "team-sync/feature/team/models"
	usermodels "team-sync/feature/user/models"

	"go.uber.org/zap"
)

// setupServer opens the local store for the configured server, runs the
// schema migration, and registers client/db/operator in a fresh
// registry. The returned server URL keys every reconciliation call.
func setupServer(cfg *config.Config, logg *zap.Logger) (*registry.Registry, string, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open local store: %w", err)
	}

	err = database.Migrate(db,
		&usermodels.User{},
		&usermodels.Preference{},
		&teammodels.Team{},
		&teammodels.TeamMembership{},
		&teammodels.MyTeam{},
		&channelmodels.Channel{},
		&channelmodels.ChannelInfo{},
		&rolemodels.Role{},
		&systemmodels.System{},
	)
	if err != nil {
		return nil, "", err
	}

	c, err := client.New(cfg.Remote)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create remote client: %w", err)
	}

	reg := registry.New()
	reg.Register(c.BaseURL(), registry.Entry{
		Client:   c,
		DB:       db,
		Operator: operator.New(db, logg),
	})
	return reg, c.BaseURL(), nil
}

// forcedLogout clears the persisted current user and drops the server's
// resources from the registry. Used as the session service's logout
// handler.
func forcedLogout(reg *registry.Registry, logg *zap.Logger) func(ctx context.Context, serverURL string) error {
	return func(ctx context.Context, serverURL string) error {
		op, err := reg.GetOperator(serverURL)
		if err == nil {
			row := systemmodels.System{Name: systemmodels.NameCurrentUserId, Value: ""}
			if werr := op.Execute(ctx, []operator.Record{operator.Upsert(&row)}); werr != nil {
				logg.Warn("Failed to clear current user on logout", zap.Error(werr))
			}
		}
		reg.Remove(serverURL)
		return nil
	}
}
