package client

// Config holds configuration for the remote chat server connection.
type Config struct {
	// URL is the base URL of the chat server (scheme included).
	URL string `mapstructure:"url" default:""`
	// Token is the session token used for Bearer authentication.
	Token string `mapstructure:"token" default:""`
	// DeviceToken is the push-notification device token to attach on bootstrap.
	DeviceToken string `mapstructure:"device_token" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
