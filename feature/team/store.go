package team

import (
	"context"
	"fmt"

	"team-sync/core/client"
	"team-sync/core/operator"
	"team-sync/feature/team/models"
)

// Store prepares and queries team, membership and my-team rows for one
// server's local store.
type Store struct {
	op *operator.Operator
}

// NewStore creates a store bound to the given operator.
func NewStore(op *operator.Operator) *Store {
	return &Store{op: op}
}

// HandleTeams prepares upserts for the given teams.
func (s *Store) HandleTeams(ctx context.Context, teams []client.Team, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(teams))
	for _, t := range teams {
		row := models.TeamFromRemote(t)
		records = append(records, operator.Upsert(&row))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write teams: %w", err)
		}
	}
	return records, nil
}

// HandleTeamMemberships prepares upserts for the given memberships.
func (s *Store) HandleTeamMemberships(ctx context.Context, memberships []client.TeamMembership, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(memberships))
	for _, m := range memberships {
		row := models.MembershipFromRemote(m)
		records = append(records, operator.Upsert(&row))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write team memberships: %w", err)
		}
	}
	return records, nil
}

// HandleMyTeams prepares upserts for the given derived my-team rows.
func (s *Store) HandleMyTeams(ctx context.Context, myTeams []models.MyTeam, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(myTeams))
	for _, mt := range myTeams {
		row := mt
		records = append(records, operator.Upsert(&row))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write my-teams: %w", err)
		}
	}
	return records, nil
}

// ListTeams returns all locally persisted teams.
func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.op.DB().WithContext(ctx).Order("display_name").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// ListMyTeams returns the derived my-team rows.
func (s *Store) ListMyTeams(ctx context.Context) ([]models.MyTeam, error) {
	var myTeams []models.MyTeam
	if err := s.op.DB().WithContext(ctx).Find(&myTeams).Error; err != nil {
		return nil, fmt.Errorf("failed to list my-teams: %w", err)
	}
	return myTeams, nil
}

// ListMemberships returns all locally persisted team memberships.
func (s *Store) ListMemberships(ctx context.Context) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	if err := s.op.DB().WithContext(ctx).Find(&memberships).Error; err != nil {
		return nil, fmt.Errorf("failed to list team memberships: %w", err)
	}
	return memberships, nil
}
