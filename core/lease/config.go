package lease

import "time"

// Config holds configuration for the Redis-backed cycle lease.
type Config struct {
	// Addr is the Redis address. An empty address disables the lease.
	Addr string `mapstructure:"addr" default:""`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0"`
	// Key is the lease key shared by all collectors of one database.
	Key string `mapstructure:"key" default:"inventory:cycle-lease"`
	// TTL bounds how long a crashed holder blocks other collectors. A running
	// cycle renews the lease every TTL/3, so cycles may outlast it.
	TTL time.Duration `mapstructure:"ttl" default:"2h"`
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}
