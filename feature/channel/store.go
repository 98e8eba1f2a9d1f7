package channel

import (
	"context"
	"errors"
	"fmt"

	"team-sync/core/client"
	"team-sync/core/operator"
	"team-sync/feature/channel/models"

	"gorm.io/gorm"
)

// Store prepares and queries channel and channel-info rows for one
// server's local store.
type Store struct {
	op *operator.Operator
}

// NewStore creates a store bound to the given operator.
func NewStore(op *operator.Operator) *Store {
	return &Store{op: op}
}

// HandleChannelInfos prepares upserts for the given channel-info
// payloads.
func (s *Store) HandleChannelInfos(ctx context.Context, infos []client.ChannelInfo, prepareOnly bool) ([]operator.Record, error) {
	records := make([]operator.Record, 0, len(infos))
	for _, i := range infos {
		row := models.InfoFromRemote(i)
		records = append(records, operator.Upsert(&row))
	}
	if !prepareOnly {
		if err := s.op.Execute(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to write channel infos: %w", err)
		}
	}
	return records, nil
}

// GetChannelInfo returns the extended info for a channel, or nil when
// none is persisted.
func (s *Store) GetChannelInfo(ctx context.Context, channelId string) (*models.ChannelInfo, error) {
	var info models.ChannelInfo
	err := s.op.DB().WithContext(ctx).First(&info, "channel_id = ?", channelId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query channel info %s: %w", channelId, err)
	}
	return &info, nil
}

// DeleteChannel removes a channel and its extended info in one
// transaction. SQLite does not enforce the FK cascade without a pragma,
// so the info row is deleted explicitly.
func (s *Store) DeleteChannel(ctx context.Context, channelId string) error {
	err := s.op.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChannelInfo{ChannelId: channelId}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Channel{Id: channelId}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete channel %s: %w", channelId, err)
	}
	return nil
}
