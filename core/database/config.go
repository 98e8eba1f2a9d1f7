package database

// Config holds configuration for the local store connection.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Name is the database name. For sqlite this is the file path (or
	// ":memory:" for an in-memory store).
	Name string `mapstructure:"name" default:"team-sync.db"`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
