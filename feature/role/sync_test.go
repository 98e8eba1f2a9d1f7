package role_test

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
	"team-sync/feature/role"
	"team-sync/feature/role/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupRoleSyncer(t *testing.T, available []client.Role) (*role.Syncer, *role.Store, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/roles/names", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var names []string
		json.NewDecoder(r.Body).Decode(&names)
		var matched []client.Role
		for _, def := range available {
			for _, n := range names {
				if def.Name == n {
					matched = append(matched, def)
				}
			}
		}
		json.NewEncoder(w).Encode(matched)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, database.Migrate(db, &models.Role{}))

	c, err := client.New(client.Config{URL: srv.URL, Token: "sess-token"})
	assert.NoError(t, err)

	store := role.NewStore(operator.New(db, zap.NewNop()))
	return role.NewSyncer(c, store, zap.NewNop()), store, &calls
}

var roleFixtures = []client.Role{
	{Id: "r1", Name: "system_user", DisplayName: "Member", Permissions: []string{"create_post", "view_team"}},
	{Id: "r2", Name: "team_admin", DisplayName: "Team Admin", Permissions: []string{"manage_team"}},
}

func TestFetchRolesByNames(t *testing.T) {
	syncer, store, calls := setupRoleSyncer(t, roleFixtures)
	ctx := context.Background()

	t.Run("EmptySetIsSuccessWithoutFetch", func(t *testing.T) {
		roles, records, err := syncer.FetchRolesByNames(ctx, nil, true)
		assert.NoError(t, err)
		assert.Empty(t, roles)
		assert.Empty(t, records)
		assert.Equal(t, int64(0), calls.Load())
	})

	t.Run("DeduplicatesBeforeFetch", func(t *testing.T) {
		roles, records, err := syncer.FetchRolesByNames(ctx,
			[]string{"system_user", "team_admin", "system_user"}, true)
		assert.NoError(t, err)
		assert.Len(t, roles, 2)
		assert.Len(t, records, 2)
		assert.Equal(t, int64(1), calls.Load())

		// prepareOnly leaves the store untouched.
		stored, err := store.ListRoles(ctx)
		assert.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("ImmediateWrite", func(t *testing.T) {
		_, _, err := syncer.FetchRolesByNames(ctx, []string{"system_user"}, false)
		assert.NoError(t, err)

		stored, err := store.ListRoles(ctx)
		assert.NoError(t, err)
		assert.Len(t, stored, 1)
		assert.Equal(t, "system_user", stored[0].Name)
		assert.Equal(t, []string{"create_post", "view_team"}, stored[0].PermissionList())
	})
}

func TestFetchRolesIfNeeded(t *testing.T) {
	syncer, store, calls := setupRoleSyncer(t, roleFixtures)
	ctx := context.Background()

	// Seed one known role.
	_, _, err := syncer.FetchRolesByNames(ctx, []string{"system_user"}, false)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	t.Run("AllKnownSkipsFetch", func(t *testing.T) {
		assert.NoError(t, syncer.FetchRolesIfNeeded(ctx, []string{"system_user"}))
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("FetchesOnlyMissing", func(t *testing.T) {
		assert.NoError(t, syncer.FetchRolesIfNeeded(ctx, []string{"system_user", "team_admin"}))
		assert.Equal(t, int64(2), calls.Load())

		stored, err := store.ListRoles(ctx)
		assert.NoError(t, err)
		assert.Len(t, stored, 2)
	})

	t.Run("EmptyNamesIsNoop", func(t *testing.T) {
		assert.NoError(t, syncer.FetchRolesIfNeeded(ctx, nil))
		assert.Equal(t, int64(2), calls.Load())
	})
}
