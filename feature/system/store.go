package system

import (
	"context"
	"errors"
	"fmt"

	"team-sync/core/operator"
	"team-sync/feature/system/models"

	"gorm.io/gorm"
)

// Store prepares and queries system key/value rows for one server's
// local store.
type Store struct {
	op *operator.Operator
}

// NewStore creates a store bound to the given operator.
func NewStore(op *operator.Operator) *Store {
	return &Store{op: op}
}

// HandleSystem prepares upserts for the given system rows.
func (s *Store) HandleSystem(ctx context.Context, entries []models.System, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(entries))
	for _, e := range entries {
		row := e
		records = append(records, operator.Upsert(&row))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write system values: %w", err)
		}
	}
	return records, nil
}

// GetValue returns a system value by name, or "" when absent.
func (s *Store) GetValue(ctx context.Context, name string) (string, error) {
	var row models.System
	err := s.op.DB().WithContext(ctx).First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query system value %s: %w", name, err)
	}
	return row.Value, nil
}

// CurrentUserId returns the persisted current-user identifier, or ""
// when no user is logged in.
func (s *Store) CurrentUserId(ctx context.Context) (string, error) {
	return s.GetValue(ctx, models.NameCurrentUserId)
}
