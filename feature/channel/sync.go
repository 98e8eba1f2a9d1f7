package channel

import (
	"context"

	"team-sync/core/client"
	"team-sync/core/registry"

	"go.uber.org/zap"
)

// Syncer fetches channel metadata from a server into the local store.
type Syncer struct {
	registry *registry.Registry
	logger   *zap.Logger
}

// NewSyncer creates a syncer over the given registry.
func NewSyncer(reg *registry.Registry, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{registry: reg, logger: log}
}

// FetchChannelInfo fetches one channel's extended info and, unless
// fetchOnly, upserts it immediately.
func (s *Syncer) FetchChannelInfo(ctx context.Context, serverURL, channelId string, fetchOnly bool) (*client.ChannelInfo, error) {
	c, err := s.registry.GetClient(serverURL)
	if err != nil {
		return nil, err
	}

	info, err := c.GetChannelInfo(ctx, channelId)
	if err != nil {
		return nil, err
	}

	if !fetchOnly {
		op, err := s.registry.GetOperator(serverURL)
		if err != nil {
			return nil, err
		}
		if _, err := NewStore(op).HandleChannelInfos(ctx, []client.ChannelInfo{*info}, false); err != nil {
			return nil, err
		}
	}

	return info, nil
}
