package user

import (
	"context"
	"errors"
	"fmt"

	"team-sync/core/client"
	"team-sync/core/operator"
	"team-sync/feature/user/models"

	"gorm.io/gorm"
)

// Store prepares and queries user and preference rows for one server's
// local store.
type Store struct {
	op *operator.Operator
}

// NewStore creates a store bound to the given operator.
func NewStore(op *operator.Operator) *Store {
	return &Store{op: op}
}

// HandleUsers prepares upserts for the given profiles. With prepareOnly
// the records are returned unwritten; otherwise they are applied
// immediately in one transaction.
func (s *Store) HandleUsers(ctx context.Context, profiles []client.UserProfile, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(profiles))
	for _, p := range profiles {
		u := models.UserFromProfile(p)
		records = append(records, operator.Upsert(&u))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write users: %w", err)
		}
	}
	return records, nil
}

// HandlePreferences prepares upserts for the given preference rows.
func (s *Store) HandlePreferences(ctx context.Context, prefs []client.Preference, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(prefs))
	for _, p := range prefs {
		row := models.PreferenceFromRemote(p)
		records = append(records, operator.Upsert(&row))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write preferences: %w", err)
		}
	}
	return records, nil
}

// GetUser returns the locally persisted user, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.op.DB().WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %s: %w", id, err)
	}
	return &u, nil
}

// ListUsers returns all locally persisted users.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.op.DB().WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetPreferences returns all preference rows for a user.
func (s *Store) GetPreferences(ctx context.Context, userId string) ([]models.Preference, error) {
	var prefs []models.Preference
	if err := s.op.DB().WithContext(ctx).Where("user_id = ?", userId).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	return prefs, nil
}
