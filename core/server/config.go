package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// AllowedOrigins is a comma separated list of origins allowed by CORS.
	AllowedOrigins string `mapstructure:"allowed_origins" default:"http://localhost:5173"`
	// BodyLimitKB caps the size of request bodies.
	BodyLimitKB int `mapstructure:"body_limit_kb" default:"1024"`
}

// Origins returns the configured CORS origins without blanks.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitKB <= 0 {
		return 1024 * 1024
	}
	return c.BodyLimitKB * 1024
}
