// Package database handles local store connections and schema setup.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// opens the per-server local store. SQLite is the default driver (one
// database file per server, offline-first); MySQL is supported for
// shared-store deployments.
//
// # Connect
//
// The Connect function opens a store based on the application's
// configuration. SQLite stores are restricted to a single open
// connection so concurrent reconciliation calls serialize on writes.
//
// # Migrate
//
// Migrate applies the entity schema (users, teams, channels, roles,
// preferences, system rows) defined in the feature model packages.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.Migrate(db, &models.User{}, &models.Team{})
package database
