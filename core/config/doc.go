// Package config provides configuration management for team-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and a .env file, with defaults driven by struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Remote: chat server URL, session token, device token, timeouts
//   - Server: local snapshot API settings (port, API key)
//   - Database: local store details (sqlite path or MySQL connection)
//   - Storage: S3/MinIO credentials for the avatar cache
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Remote.URL)
package config
