package role

import (
	"context"

	"team-sync/core/client"
	"team-sync/core/operator"
	"team-sync/core/utils"

	"go.uber.org/zap"
)

// Syncer fetches role definitions from a server and prepares them for
// the local store.
type Syncer struct {
	client *client.Client
	store  *Store
	logger *zap.Logger
}

// NewSyncer creates a syncer bound to one server's client and store.
func NewSyncer(c *client.Client, store *Store, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{client: c, store: store, logger: log}
}

// FetchRolesByNames fetches the definitions for the given role names,
// deduplicated first. An empty set is a success with no fetch and no
// records. With prepareOnly the upserts are returned unwritten.
func (s *Syncer) FetchRolesByNames(ctx context.Context, names []string, prepareOnly bool) ([]client.Role, []operator.Record, error) {
	names = utils.UniqueStrings(names)
	if len(names) == 0 {
		return nil, nil, nil
	}

	roles, err := s.client.GetRolesByNames(ctx, names)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.store.HandleRoles(ctx, roles, prepareOnly)
	if err != nil {
		return nil, nil, err
	}
	return roles, records, nil
}

// FetchRolesIfNeeded fetches and persists only the role names not
// already known locally. Used after user patches that changed the role
// string.
func (s *Syncer) FetchRolesIfNeeded(ctx context.Context, names []string) error {
	names = utils.UniqueStrings(names)
	if len(names) == 0 {
		return nil
	}

	known, err := s.store.KnownRoleNames(ctx, names)
	if err != nil {
		return err
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, n := range known {
		knownSet[n] = struct{}{}
	}

	var missing []string
	for _, n := range names {
		if _, ok := knownSet[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	s.logger.Debug("Fetching missing roles", zap.Strings("roles", missing))
	_, _, err = s.FetchRolesByNames(ctx, missing, false)
	return err
}
