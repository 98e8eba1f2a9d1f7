package user

import (
	"context"

	"team-sync/core/client"
	"team-sync/core/logger"
	"team-sync/core/registry"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RemoteErrorHook is invoked with every remote failure so the session
// layer can check for expiry and force a logout. It runs to completion
// before the reconciliation call returns.
type RemoteErrorHook func(ctx context.Context, serverURL string, err error)

// Syncer runs the profile reconciliation operations against one or more
// registered servers.
type Syncer struct {
	registry      *registry.Registry
	logger        *zap.Logger
	onRemoteError RemoteErrorHook
}

// NewSyncer creates a syncer. onRemoteError may be nil.
func NewSyncer(reg *registry.Registry, log *zap.Logger, onRemoteError RemoteErrorHook) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{registry: reg, logger: log, onRemoteError: onRemoteError}
}

// ChannelProfilesResult carries one channel's fetch outcome. Users and
// Err are mutually exclusive.
type ChannelProfilesResult struct {
	ChannelId string               `json:"channel_id"`
	Users     []client.UserProfile `json:"users,omitempty"`
	Err       error                `json:"-"`
}

// FetchProfilesInChannel fetches the member profiles of one channel,
// deduplicated by id and with excludeUserId removed. Unless fetchOnly,
// the resulting set is staged and committed in one batch.
func (s *Syncer) FetchProfilesInChannel(ctx context.Context, serverURL, channelId, excludeUserId string, fetchOnly bool) ChannelProfilesResult {
	result := ChannelProfilesResult{ChannelId: channelId}

	c, err := s.registry.GetClient(serverURL)
	if err != nil {
		result.Err = err
		return result
	}

	profiles, err := c.GetProfilesInChannel(ctx, channelId)
	if err != nil {
		s.notifyRemoteError(ctx, serverURL, err)
		result.Err = err
		return result
	}

	users := dedupeProfiles(profiles, excludeUserId)
	if !fetchOnly && len(users) > 0 {
		op, err := s.registry.GetOperator(serverURL)
		if err != nil {
			result.Err = err
			return result
		}
		records, err := NewStore(op).HandleUsers(ctx, users, true)
		if err != nil {
			result.Err = err
			return result
		}
		if err := op.BatchRecords(ctx, records); err != nil {
			result.Err = err
			return result
		}
	}

	result.Users = users
	return result
}

// FetchProfilesPerChannels fans out one fetch-only profile fetch per
// channel concurrently, then persists the deduplicated union in a
// single combined commit. A failing channel carries its own Err but
// does not abort the others.
func (s *Syncer) FetchProfilesPerChannels(ctx context.Context, serverURL string, channelIds []string, excludeUserId string, fetchOnly bool) ([]ChannelProfilesResult, error) {
	results := make([]ChannelProfilesResult, len(channelIds))

	g, gctx := errgroup.WithContext(ctx)
	for i, channelId := range channelIds {
		i, channelId := i, channelId
		g.Go(func() error {
			results[i] = s.FetchProfilesInChannel(gctx, serverURL, channelId, excludeUserId, true)
			return nil
		})
	}
	// Inner errors live in each channel's result; only a fault of the
	// fan-out itself fails the whole operation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if fetchOnly {
		return results, nil
	}

	var union []client.UserProfile
	for _, r := range results {
		if r.Err != nil {
			log := logger.WithServer(s.logger, serverURL)
			log.Warn("Channel profile fetch failed", zap.String("channel_id", r.ChannelId), zap.Error(r.Err))
			continue
		}
		union = append(union, r.Users...)
	}
	users := dedupeProfiles(union, excludeUserId)
	if len(users) > 0 {
		op, err := s.registry.GetOperator(serverURL)
		if err != nil {
			return nil, err
		}
		records, err := NewStore(op).HandleUsers(ctx, users, true)
		if err != nil {
			return nil, err
		}
		if err := op.BatchRecords(ctx, records); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (s *Syncer) notifyRemoteError(ctx context.Context, serverURL string, err error) {
	if s.onRemoteError != nil {
		s.onRemoteError(ctx, serverURL, err)
	}
}

// dedupeProfiles dedups by user id (not payload identity) and drops
// excludeUserId, preserving first-seen order.
func dedupeProfiles(profiles []client.UserProfile, excludeUserId string) []client.UserProfile {
	seen := make(map[string]struct{}, len(profiles))
	out := make([]client.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Id == "" || p.Id == excludeUserId {
			continue
		}
		if _, ok := seen[p.Id]; ok {
			continue
		}
		seen[p.Id] = struct{}{}
		out = append(out, p)
	}
	return out
}
