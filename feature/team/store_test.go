package team_test

import (
	"context"
	"testing"

	"team-sync/core/client"
	"team-sync/core/database"
	"team-sync/core/operator"
	"team-sync/feature/team"
	"team-sync/feature/team/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *team.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, database.Migrate(db, &models.Team{}, &models.TeamMembership{}, &models.MyTeam{}))
	return team.NewStore(operator.New(db, zap.NewNop()))
}

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*team.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return team.NewStore(operator.New(gormDB, zap.NewNop())), mock
}

func TestHandleTeams(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	teams := []client.Team{
		{Id: "t1", Name: "core", DisplayName: "Core Team"},
		{Id: "t2", Name: "ops", DisplayName: "Ops Team"},
	}

	t.Run("PrepareOnly", func(t *testing.T) {
		records, err := store.HandleTeams(ctx, teams, true)
		assert.NoError(t, err)
		assert.Len(t, records, 2)

		// Prepared records are not visible until committed.
		stored, err := store.ListTeams(ctx)
		assert.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("Immediate", func(t *testing.T) {
		_, err := store.HandleTeams(ctx, teams, false)
		assert.NoError(t, err)

		stored, err := store.ListTeams(ctx)
		assert.NoError(t, err)
		assert.Len(t, stored, 2)
		assert.Equal(t, "Core Team", stored[0].DisplayName)
	})

	t.Run("UpsertReplaces", func(t *testing.T) {
		renamed := []client.Team{{Id: "t1", Name: "core", DisplayName: "Core Platform"}}
		_, err := store.HandleTeams(ctx, renamed, false)
		assert.NoError(t, err)

		stored, err := store.ListTeams(ctx)
		assert.NoError(t, err)
		assert.Len(t, stored, 2)
		for _, tm := range stored {
			if tm.Id == "t1" {
				assert.Equal(t, "Core Platform", tm.DisplayName)
			}
		}
	})
}

func TestHandleTeamMemberships(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	memberships := []client.TeamMembership{
		{TeamId: "t1", UserId: "u1", Roles: "team_user"},
		{TeamId: "t2", UserId: "u1", Roles: "team_user team_admin"},
	}
	_, err := store.HandleTeamMemberships(ctx, memberships, false)
	assert.NoError(t, err)

	stored, err := store.ListMemberships(ctx)
	assert.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestHandleMyTeams(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	myTeams := []models.MyTeam{
		{TeamId: "t1", Roles: "team_user", MsgCount: 3, MentionCount: 1},
	}
	_, err := store.HandleMyTeams(ctx, myTeams, false)
	assert.NoError(t, err)

	stored, err := store.ListMyTeams(ctx)
	assert.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Equal(t, int64(3), stored[0].MsgCount)
}

func TestListTeamsQueryError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `teams`").WillReturnError(gorm.ErrInvalidDB)

	_, err := store.ListTeams(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMyTeamsQuery(t *testing.T) {
	store, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"team_id", "roles", "msg_count", "mention_count"}).
		AddRow("t1", "team_user", 5, 2)
	mock.ExpectQuery("SELECT (.+) FROM `my_teams`").WillReturnRows(rows)

	myTeams, err := store.ListMyTeams(context.Background())
	assert.NoError(t, err)
	assert.Len(t, myTeams, 1)
	assert.Equal(t, "t1", myTeams[0].TeamId)
	assert.Equal(t, int64(2), myTeams[0].MentionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
