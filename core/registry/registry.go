package registry

import (
	"errors"
	"sort"
	"sync"

	"team-sync/core/client"
	"team-sync/core/operator"

	"gorm.io/gorm"
)

var (
	// ErrClientNotFound is returned when no network client is registered
	// for a server.
	ErrClientNotFound = errors.New("client not found for server")
	// ErrDatabaseNotFound is returned when no local store is registered
	// for a server.
	ErrDatabaseNotFound = errors.New("database not found for server")
)

// Entry holds the per-server resources: a network client bound to the
// server's base URL and session, and the local store with its operator.
type Entry struct {
	Client   *client.Client
	DB       *gorm.DB
	Operator *operator.Operator
}

// Registry resolves per-server resources. It is passed explicitly into
// reconciliation calls instead of living as process-wide state, so unit
// tests can build one without global setup.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register associates a server URL with its resources, replacing any
// previous entry.
func (r *Registry) Register(serverURL string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[serverURL] = entry
}

// Remove drops a server's resources, typically on logout.
func (r *Registry) Remove(serverURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, serverURL)
}

// GetClient resolves the network client for a server.
func (r *Registry) GetClient(serverURL string) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[serverURL]
	if !ok || entry.Client == nil {
		return nil, ErrClientNotFound
	}
	return entry.Client, nil
}

// GetDatabase resolves the local database handle for a server.
func (r *Registry) GetDatabase(serverURL string) (*gorm.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[serverURL]
	if !ok || entry.DB == nil {
		return nil, ErrDatabaseNotFound
	}
	return entry.DB, nil
}

// GetOperator resolves the store operator for a server.
func (r *Registry) GetOperator(serverURL string) (*operator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[serverURL]
	if !ok || entry.Operator == nil {
		return nil, ErrDatabaseNotFound
	}
	return entry.Operator, nil
}

// ServerURLs lists the registered servers in stable order.
func (r *Registry) ServerURLs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	urls := make([]string, 0, len(r.entries))
	for serverURL := range r.entries {
		urls = append(urls, serverURL)
	}
	sort.Strings(urls)
	return urls
}
