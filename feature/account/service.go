package account

import (
	"context"
	"fmt"

	"team-sync/core/client"
	"team-sync/core/logger"
	"team-sync/core/operator"
	"team-sync/core/registry"
	"team-sync/core/utils"
	"team-sync/feature/role"
	"team-sync/feature/system"
	systemmodels "team-sync/feature/system/models"
	"team-sync/feature/team"
	teammodels "team-sync/feature/team/models"
	"team-sync/feature/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LogoutHandler performs forced logout for a server whose session was
// rejected. It must tolerate being called for an already-removed server.
type LogoutHandler func(ctx context.Context, serverURL string) error

// Service implements the session reconciliation operations: FetchMe,
// LoadMe and UpdateMe, plus forced-logout classification for every
// remote failure.
type Service struct {
	registry *registry.Registry
	logger   *zap.Logger
	onLogout LogoutHandler
}

// NewService creates the session service. onLogout may be nil if forced
// logout is handled elsewhere.
func NewService(reg *registry.Registry, log *zap.Logger, onLogout LogoutHandler) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{registry: reg, logger: log, onLogout: onLogout}
}

// CheckForExpiredSession inspects a remote failure and, when it signals
// an expired or invalid session, performs forced logout for the server.
// The logout side effect completes before this returns and never
// propagates its own failure.
func (s *Service) CheckForExpiredSession(ctx context.Context, serverURL string, err error) {
	if err == nil || !client.IsSessionExpired(err) {
		return
	}
	log := logger.WithServer(s.logger, serverURL)
	log.Info("Session expired, forcing logout", zap.Error(err))
	if s.onLogout == nil {
		return
	}
	if lerr := s.onLogout(ctx, serverURL); lerr != nil {
		log.Error("Forced logout failed", zap.Error(lerr))
	}
}

// FetchMe fetches the current user's profile. Unless fetchOnly, the
// profile is upserted immediately (non-staged).
func (s *Service) FetchMe(ctx context.Context, serverURL string, fetchOnly bool) (*client.UserProfile, error) {
	c, err := s.registry.GetClient(serverURL)
	if err != nil {
		return nil, err
	}

	profile, err := c.GetMe(ctx)
	if err != nil {
		s.CheckForExpiredSession(ctx, serverURL, err)
		return nil, err
	}

	if !fetchOnly {
		op, err := s.registry.GetOperator(serverURL)
		if err != nil {
			return nil, err
		}
		if _, err := user.NewStore(op).HandleUsers(ctx, []client.UserProfile{*profile}, false); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

// LoadMeOptions carries the optional inputs for LoadMe.
type LoadMeOptions struct {
	// DeviceToken, when set, is attached to the session for push
	// notifications before anything else.
	DeviceToken string
	// User, when set, skips the current-user fetch (the caller already
	// holds a fresh profile from login).
	User *client.UserProfile
}

// LoadMe bootstraps the full session state after authentication: it
// joins six concurrent fetches, derives my-team rows, stages every
// category plus lazily-resolved roles, and commits them in one batch.
// On any failure the error is returned with no user and nothing
// committed.
func (s *Service) LoadMe(ctx context.Context, serverURL string, opts LoadMeOptions) (*client.UserProfile, error) {
	op, err := s.registry.GetOperator(serverURL)
	if err != nil {
		return nil, err
	}
	c, err := s.registry.GetClient(serverURL)
	if err != nil {
		return nil, err
	}
	log := logger.WithServer(s.logger, serverURL)

	currentUser := opts.User
	if opts.DeviceToken != "" {
		if err := c.AttachDevice(ctx, opts.DeviceToken); err != nil {
			s.CheckForExpiredSession(ctx, serverURL, err)
			return nil, err
		}
	}
	if currentUser == nil {
		profile, err := c.GetMe(ctx)
		if err != nil {
			s.CheckForExpiredSession(ctx, serverURL, err)
			return nil, err
		}
		currentUser = profile
	}

	// Session bootstrap is all-or-nothing: one rejection aborts the
	// whole join.
	var (
		teams       []client.Team
		memberships []client.TeamMembership
		unreads     []client.TeamUnread
		preferences []client.Preference
		config      map[string]string
		license     map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { teams, err = c.GetMyTeams(gctx); return })
	g.Go(func() (err error) { memberships, err = c.GetMyTeamMembers(gctx); return })
	g.Go(func() (err error) { unreads, err = c.GetMyTeamUnreads(gctx); return })
	g.Go(func() (err error) { preferences, err = c.GetPreferences(gctx); return })
	g.Go(func() (err error) { config, err = c.GetClientConfig(gctx); return })
	g.Go(func() (err error) { license, err = c.GetClientLicense(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	myTeams := teammodels.DeriveMyTeams(unreads, memberships)

	systemRows, err := buildSystemRows(config, license, currentUser.Id)
	if err != nil {
		return nil, err
	}

	teamStore := team.NewStore(op)
	userStore := user.NewStore(op)
	systemStore := system.NewStore(op)

	var batch []operator.Record
	stage := func(records []operator.Record, err error) error {
		if err != nil {
			return err
		}
		batch = append(batch, records...)
		return nil
	}
	if err := stage(teamStore.HandleTeams(ctx, teams, true)); err != nil {
		return nil, err
	}
	if err := stage(teamStore.HandleTeamMemberships(ctx, memberships, true)); err != nil {
		return nil, err
	}
	if err := stage(teamStore.HandleMyTeams(ctx, myTeams, true)); err != nil {
		return nil, err
	}
	if err := stage(systemStore.HandleSystem(ctx, systemRows, true)); err != nil {
		return nil, err
	}
	if err := stage(userStore.HandleUsers(ctx, []client.UserProfile{*currentUser}, true)); err != nil {
		return nil, err
	}
	if err := stage(userStore.HandlePreferences(ctx, preferences, true)); err != nil {
		return nil, err
	}

	roleNames := utils.SplitTokens(currentUser.Roles)
	for _, m := range memberships {
		roleNames = append(roleNames, utils.SplitTokens(m.Roles)...)
	}
	roleNames = utils.UniqueStrings(roleNames)
	if len(roleNames) > 0 {
		roleSyncer := role.NewSyncer(c, role.NewStore(op), s.logger)
		_, roleRecords, err := roleSyncer.FetchRolesByNames(ctx, roleNames, true)
		if err != nil {
			return nil, err
		}
		batch = append(batch, roleRecords...)
	}

	if len(batch) > 0 {
		if err := op.BatchRecords(ctx, batch); err != nil {
			return nil, err
		}
	}

	log.Info("Session state loaded",
		zap.String("user_id", currentUser.Id),
		zap.Int("teams", len(teams)),
		zap.Int("my_teams", len(myTeams)),
		zap.Int("roles", len(roleNames)))
	return currentUser, nil
}

// UpdateMe submits a patch of the current user to the server. On
// success the returned profile is upserted immediately and, if the role
// string changed, the new role definitions are resolved. On failure the
// local state is untouched.
func (s *Service) UpdateMe(ctx context.Context, serverURL string, patch client.UserPatch) (*client.UserProfile, error) {
	c, err := s.registry.GetClient(serverURL)
	if err != nil {
		return nil, err
	}
	op, err := s.registry.GetOperator(serverURL)
	if err != nil {
		return nil, err
	}
	log := logger.WithServer(s.logger, serverURL)

	userStore := user.NewStore(op)

	profile, err := c.PatchMe(ctx, patch)
	if err != nil {
		log.Error("User patch failed", zap.Error(err))
		return nil, err
	}

	// Capture the pre-update role string before the upsert overwrites it.
	previous, err := userStore.GetUser(ctx, profile.Id)
	if err != nil {
		return nil, err
	}

	if _, err := userStore.HandleUsers(ctx, []client.UserProfile{*profile}, false); err != nil {
		return nil, err
	}

	if previous == nil || previous.Roles != profile.Roles {
		roleSyncer := role.NewSyncer(c, role.NewStore(op), s.logger)
		if err := roleSyncer.FetchRolesIfNeeded(ctx, utils.SplitTokens(profile.Roles)); err != nil {
			log.Warn("Role refresh after patch failed", zap.Error(err))
		}
	}

	return profile, nil
}

func buildSystemRows(config, license map[string]string, currentUserId string) ([]systemmodels.System, error) {
	configRow, err := systemmodels.SystemFromValue(systemmodels.NameConfig, config)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	licenseRow, err := systemmodels.SystemFromValue(systemmodels.NameLicense, license)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize license: %w", err)
	}
	userRow, err := systemmodels.SystemFromValue(systemmodels.NameCurrentUserId, currentUserId)
	if err != nil {
		return nil, err
	}
	return []systemmodels.System{configRow, licenseRow, userRow}, nil
}
