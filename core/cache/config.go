package cache

import "strconv"

// Config holds the redis connection used by the shared tracking store.
type Config struct {
	// Enabled connects to redis at startup.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Host is the redis host.
	Host string `mapstructure:"host" default:"127.0.0.1"`
	// Port is the redis port.
	Port int `mapstructure:"port" default:"6379"`
	// Password is the redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the redis database index.
	DB int `mapstructure:"db" default:"0"`
	// Prefix is prepended to every key written by this service.
	Prefix string `mapstructure:"prefix" default:"freight"`
}

// Addr returns host:port with defaults applied.
func (c Config) Addr() string {
	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port <= 0 {
		port = 6379
	}
	return host + ":" + strconv.Itoa(port)
}
