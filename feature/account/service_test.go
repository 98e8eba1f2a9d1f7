package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"team-sync/core/client"
	"team-sync/core/database"
	"team-sync/core/operator"
	"team-sync/core/registry"
	"team-sync/feature/account"
	"team-sync/feature/role"
	rolemodels "team-sync/feature/role/models"
	"team-sync/feature/system"
	systemmodels "team-sync/feature/system/models"
	"team-sync/feature/team"
	teammodels "team-sync/feature/team/models"
	"team-sync/feature/user"
	usermodels "team-sync/feature/user/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fixtureServer is a fake remote API serving canned session payloads.
// Handlers read the struct fields at request time, so tests can mutate
// the fixture before calling the service.
type fixtureServer struct {
	srv       *httptest.Server
	roleCalls atomic.Int64

	me          client.UserProfile
	meErr       *client.AppError
	teams       []client.Team
	memberships []client.TeamMembership
	unreads     []client.TeamUnread
	preferences []client.Preference
	prefsFail   bool
	roles       []client.Role
}

func newFixtureServer(t *testing.T) *fixtureServer {
	t.Helper()
	f := &fixtureServer{
		me: client.UserProfile{
			Id:       "u1",
			Username: "alice",
			Email:    "alice@example.com",
			Roles:    "system_user",
		},
		teams: []client.Team{
			{Id: "t1", Name: "core", DisplayName: "Core Team"},
			{Id: "t2", Name: "ops", DisplayName: "Ops Team"},
		},
		memberships: []client.TeamMembership{
			{TeamId: "t1", UserId: "u1", Roles: "team_user team_admin"},
		},
		unreads: []client.TeamUnread{
			{TeamId: "t1", MsgCount: 4, MentionCount: 1},
			{TeamId: "t2", MsgCount: 9, MentionCount: 0},
		},
		preferences: []client.Preference{
			{UserId: "u1", Category: "display_settings", Name: "use_military_time", Value: "true"},
		},
		roles: []client.Role{
			{Id: "r1", Name: "system_user", Permissions: []string{"create_post"}},
			{Id: "r2", Name: "team_user", Permissions: []string{"view_team"}},
			{Id: "r3", Name: "team_admin", Permissions: []string{"manage_team"}},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/users/me", func(w http.ResponseWriter, r *http.Request) {
		if f.meErr != nil {
			w.WriteHeader(f.meErr.StatusCode)
			json.NewEncoder(w).Encode(f.meErr)
			return
		}
		json.NewEncoder(w).Encode(f.me)
	})
	mux.HandleFunc("/api/v4/users/me/patch", func(w http.ResponseWriter, r *http.Request) {
		var patch client.UserPatch
		json.NewDecoder(r.Body).Decode(&patch)
		updated := f.me
		if patch.Nickname != nil {
			updated.Nickname = *patch.Nickname
		}
		if patch.Position != nil {
			updated.Position = *patch.Position
		}
		json.NewEncoder(w).Encode(updated)
	})
	mux.HandleFunc("/api/v4/users/me/teams", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.teams)
	})
	mux.HandleFunc("/api/v4/users/me/teams/members", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.memberships)
	})
	mux.HandleFunc("/api/v4/users/me/teams/unread", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.unreads)
	})
	mux.HandleFunc("/api/v4/users/me/preferences", func(w http.ResponseWriter, r *http.Request) {
		if f.prefsFail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(&client.AppError{
				Id: "api.preference.get.app_error", Message: "store failure",
			})
			return
		}
		json.NewEncoder(w).Encode(f.preferences)
	})
	mux.HandleFunc("/api/v4/config/client", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"Version": "9.5.0"})
	})
	mux.HandleFunc("/api/v4/license/client", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"IsLicensed": "false"})
	})
	mux.HandleFunc("/api/v4/users/sessions/device", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK"}`))
	})
	mux.HandleFunc("/api/v4/roles/names", func(w http.ResponseWriter, r *http.Request) {
		f.roleCalls.Add(1)
		var names []string
		json.NewDecoder(r.Body).Decode(&names)
		var matched []client.Role
		for _, role := range f.roles {
			for _, n := range names {
				if role.Name == n {
					matched = append(matched, role)
				}
			}
		}
		json.NewEncoder(w).Encode(matched)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

type harness struct {
	fixture   *fixtureServer
	registry  *registry.Registry
	operator  *operator.Operator
	serverURL string
	logouts   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := newFixtureServer(t)

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, database.Migrate(db,
		&usermodels.User{}, &usermodels.Preference{},
		&teammodels.Team{}, &teammodels.TeamMembership{}, &teammodels.MyTeam{},
		&rolemodels.Role{}, &systemmodels.System{}))

	c, err := client.New(client.Config{URL: f.srv.URL, Token: "sess-token"})
	assert.NoError(t, err)

	op := operator.New(db, zap.NewNop())
	reg := registry.New()
	reg.Register(f.srv.URL, registry.Entry{Client: c, DB: db, Operator: op})

	return &harness{fixture: f, registry: reg, operator: op, serverURL: f.srv.URL}
}

func (h *harness) service() *account.Service {
	return account.NewService(h.registry, zap.NewNop(), func(ctx context.Context, serverURL string) error {
		h.logouts = append(h.logouts, serverURL)
		h.registry.Remove(serverURL)
		return nil
	})
}

func TestFetchMe(t *testing.T) {
	h := newHarness(t)
	svc := h.service()
	ctx := context.Background()

	profile, err := svc.FetchMe(ctx, h.serverURL, false)
	assert.NoError(t, err)
	assert.Equal(t, "u1", profile.Id)
	assert.Equal(t, "system_user", profile.Roles)

	stored, err := user.NewStore(h.operator).GetUser(ctx, "u1")
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Username)
}

func TestFetchMeFetchOnly(t *testing.T) {
	h := newHarness(t)
	svc := h.service()
	ctx := context.Background()

	profile, err := svc.FetchMe(ctx, h.serverURL, true)
	assert.NoError(t, err)
	assert.Equal(t, "u1", profile.Id)

	stored, err := user.NewStore(h.operator).GetUser(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, stored)
}

func TestFetchMeSessionExpired(t *testing.T) {
	h := newHarness(t)
	h.fixture.meErr = &client.AppError{
		Id:         client.ErrIdSessionExpired,
		Message:    "session expired",
		StatusCode: http.StatusUnauthorized,
	}
	svc := h.service()

	_, err := svc.FetchMe(context.Background(), h.serverURL, false)
	assert.Error(t, err)
	assert.True(t, client.IsSessionExpired(err))

	// Forced logout ran to completion before FetchMe returned.
	assert.Equal(t, []string{h.serverURL}, h.logouts)
	_, err = h.registry.GetClient(h.serverURL)
	assert.ErrorIs(t, err, registry.ErrClientNotFound)
}

func TestLoadMe(t *testing.T) {
	h := newHarness(t)
	svc := h.service()
	ctx := context.Background()

	currentUser, err := svc.LoadMe(ctx, h.serverURL, account.LoadMeOptions{DeviceToken: "device-1"})
	assert.NoError(t, err)
	assert.Equal(t, "u1", currentUser.Id)

	userStore := user.NewStore(h.operator)
	teamStore := team.NewStore(h.operator)
	systemStore := system.NewStore(h.operator)
	roleStore := role.NewStore(h.operator)

	stored, err := userStore.GetUser(ctx, "u1")
	assert.NoError(t, err)
	assert.NotNil(t, stored)

	teams, err := teamStore.ListTeams(ctx)
	assert.NoError(t, err)
	assert.Len(t, teams, 2)

	// One my-team row per unread entry. A team with no membership keeps
	// an empty role string instead of being dropped.
	myTeams, err := teamStore.ListMyTeams(ctx)
	assert.NoError(t, err)
	assert.Len(t, myTeams, 2)
	byTeam := make(map[string]teammodels.MyTeam, len(myTeams))
	for _, mt := range myTeams {
		byTeam[mt.TeamId] = mt
	}
	assert.Equal(t, "team_user team_admin", byTeam["t1"].Roles)
	assert.Equal(t, int64(1), byTeam["t1"].MentionCount)
	assert.Equal(t, "", byTeam["t2"].Roles)
	assert.Equal(t, int64(9), byTeam["t2"].MsgCount)

	prefs, err := userStore.GetPreferences(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, prefs, 1)

	currentUserId, err := systemStore.CurrentUserId(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "u1", currentUserId)

	configJSON, err := systemStore.GetValue(ctx, systemmodels.NameConfig)
	assert.NoError(t, err)
	var cfg map[string]string
	assert.NoError(t, json.Unmarshal([]byte(configJSON), &cfg))
	assert.Equal(t, "9.5.0", cfg["Version"])

	// Role names come from the user and membership role strings,
	// deduplicated into a single fetch.
	roles, err := roleStore.ListRoles(ctx)
	assert.NoError(t, err)
	assert.Len(t, roles, 3)
	assert.Equal(t, int64(1), h.fixture.roleCalls.Load())
}

func TestLoadMeSkipsUserFetchWhenGiven(t *testing.T) {
	h := newHarness(t)
	svc := h.service()
	ctx := context.Background()

	given := client.UserProfile{Id: "u9", Username: "bob", Roles: "system_user"}
	currentUser, err := svc.LoadMe(ctx, h.serverURL, account.LoadMeOptions{User: &given})
	assert.NoError(t, err)
	assert.Equal(t, "u9", currentUser.Id)

	stored, err := user.NewStore(h.operator).GetUser(ctx, "u9")
	assert.NoError(t, err)
	assert.NotNil(t, stored)

	currentUserId, err := system.NewStore(h.operator).CurrentUserId(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "u9", currentUserId)
}

func TestLoadMeFailureCommitsNothing(t *testing.T) {
	h := newHarness(t)
	h.fixture.prefsFail = true
	svc := h.service()
	ctx := context.Background()

	currentUser, err := svc.LoadMe(ctx, h.serverURL, account.LoadMeOptions{})
	assert.Error(t, err)
	assert.Nil(t, currentUser)

	// One rejected fetch aborts the whole join; nothing was committed.
	stored, err := user.NewStore(h.operator).GetUser(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, stored)

	teams, err := team.NewStore(h.operator).ListTeams(ctx)
	assert.NoError(t, err)
	assert.Empty(t, teams)

	currentUserId, err := system.NewStore(h.operator).CurrentUserId(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "", currentUserId)
}

func TestLoadMeEmptyRoleSet(t *testing.T) {
	h := newHarness(t)
	h.fixture.me.Roles = ""
	h.fixture.memberships = nil
	h.fixture.unreads = nil
	svc := h.service()
	ctx := context.Background()

	currentUser, err := svc.LoadMe(ctx, h.serverURL, account.LoadMeOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "u1", currentUser.Id)

	// No role names to resolve means no role fetch at all.
	assert.Equal(t, int64(0), h.fixture.roleCalls.Load())
}

func TestUpdateMe(t *testing.T) {
	h := newHarness(t)
	svc := h.service()
	ctx := context.Background()

	// Seed local state so role gating sees a previous role string.
	_, err := svc.LoadMe(ctx, h.serverURL, account.LoadMeOptions{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), h.fixture.roleCalls.Load())

	nickname := "Al"
	profile, err := svc.UpdateMe(ctx, h.serverURL, client.UserPatch{Nickname: &nickname})
	assert.NoError(t, err)
	assert.Equal(t, "Al", profile.Nickname)

	stored, err := user.NewStore(h.operator).GetUser(ctx, "u1")
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, "Al", stored.Nickname)

	// Roles unchanged, so no extra role fetch happened.
	assert.Equal(t, int64(1), h.fixture.roleCalls.Load())
}

func TestUpdateMeRoleChange(t *testing.T) {
	h := newHarness(t)
	svc := h.service()
	ctx := context.Background()

	_, err := svc.LoadMe(ctx, h.serverURL, account.LoadMeOptions{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), h.fixture.roleCalls.Load())

	// The server reports a different role string on the patched profile.
	h.fixture.me.Roles = "system_user system_admin"
	h.fixture.roles = append(h.fixture.roles, client.Role{
		Id: "r4", Name: "system_admin", Permissions: []string{"manage_system"},
	})

	position := "Lead"
	profile, err := svc.UpdateMe(ctx, h.serverURL, client.UserPatch{Position: &position})
	assert.NoError(t, err)
	assert.Equal(t, "system_user system_admin", profile.Roles)

	// The changed role string triggered a refresh of the missing role.
	assert.Equal(t, int64(2), h.fixture.roleCalls.Load())
	roles, err := role.NewStore(h.operator).ListRoles(ctx)
	assert.NoError(t, err)
	assert.Len(t, roles, 4)
}

func TestCheckForExpiredSession(t *testing.T) {
	h := newHarness(t)
	svc := h.service()
	ctx := context.Background()

	t.Run("NilError", func(t *testing.T) {
		svc.CheckForExpiredSession(ctx, h.serverURL, nil)
		assert.Empty(t, h.logouts)
	})

	t.Run("OrdinaryError", func(t *testing.T) {
		svc.CheckForExpiredSession(ctx, h.serverURL, &client.AppError{
			Id: "api.user.missing.app_error", StatusCode: http.StatusNotFound,
		})
		assert.Empty(t, h.logouts)
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		svc.CheckForExpiredSession(ctx, h.serverURL, &client.AppError{
			Id: client.ErrIdSessionExpired, StatusCode: http.StatusUnauthorized,
		})
		assert.Equal(t, []string{h.serverURL}, h.logouts)

		// Forced logout removed the server's resources.
		_, err := h.registry.GetClient(h.serverURL)
		assert.ErrorIs(t, err, registry.ErrClientNotFound)
	})
}
