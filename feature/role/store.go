package role

import (
	"context"
	"fmt"

	"team-sync/core/client"
	"team-sync/core/operator"
	"team-sync/feature/role/models"
)

// Store prepares and queries role rows for one server's local store.
type Store struct {
	op *operator.Operator
}

// NewStore creates a store bound to the given operator.
func NewStore(op *operator.Operator) *Store {
	return &Store{op: op}
}

// HandleRoles prepares upserts for the given role definitions.
func (s *Store) HandleRoles(ctx context.Context, roles []client.Role, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(roles))
	for _, r := range roles {
		row := models.RoleFromRemote(r)
		records = append(records, operator.Upsert(&row))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write roles: %w", err)
		}
	}
	return records, nil
}

// KnownRoleNames returns which of the given role names already exist
// locally.
func (s *Store) KnownRoleNames(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var known []string
	err := s.op.DB().WithContext(ctx).
		Model(&models.Role{}).
		Where("name IN ?", names).
		Pluck("name", &known).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query known roles: %w", err)
	}
	return known, nil
}

// ListRoles returns all locally persisted role definitions.
func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.op.DB().WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}
