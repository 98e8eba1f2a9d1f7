// Package server holds the local snapshot API server configuration.
//
// The main application entry point handles server startup; this package
// only defines the configuration structure (port, API key, enabled
// flag) so core/config can embed it.
package server
