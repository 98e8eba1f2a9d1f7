// Package registry resolves per-server resources for the reconciliation
// layer.
//
// Each registered server maps to a network client plus a database handle
// and its operator. Resolution failures are explicit error values
// (ErrClientNotFound, ErrDatabaseNotFound) that reconciliation functions
// return to their callers rather than propagate as faults.
//
// The registry is read-mostly: entries are populated by setup code at
// startup (or login) and removed on logout.
package registry
