package server

// Config holds configuration for the local snapshot API server.
type Config struct {
	// Enabled toggles the snapshot API.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8065"`
	// ApiKey is the secret key required to access the API. Empty
	// disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
}
