package config

import (
	"reflect"
	"strings"

	"freight-relay/core/cache"
	"freight-relay/core/database"
	"freight-relay/core/logger"
	"freight-relay/core/queue"
	"freight-relay/core/scheduler"
	"freight-relay/core/server"
	"freight-relay/core/storage"
	"freight-relay/core/tm"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the store connection.
	Database database.Config `mapstructure:"database"`
	// TM holds configuration for the TM OData service.
	TM tm.Config `mapstructure:"tm"`
	// Scheduler holds configuration for the periodic sync pass.
	Scheduler scheduler.Config `mapstructure:"scheduler"`
	// Queue holds configuration for the asynq task queue.
	Queue queue.Config `mapstructure:"queue"`
	// Redis holds configuration for the shared redis connection.
	Redis cache.Config `mapstructure:"redis"`
	// Tracking holds configuration for the live tracking cache.
	Tracking TrackingConfig `mapstructure:"tracking"`
	// Storage holds configuration for the pass report archive.
	Storage storage.Config `mapstructure:"storage"`
}

// TrackingConfig holds configuration for the live tracking cache.
type TrackingConfig struct {
	// Backend is memory or redis.
	Backend string `mapstructure:"backend" default:"memory"`
	// MaxPoints is the number of points kept per order.
	MaxPoints int `mapstructure:"max_points" default:"1000"`
	// MaxOrders caps the number of orders the memory backend tracks. Zero means unbounded.
	MaxOrders int `mapstructure:"max_orders" default:"0"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. TM_BASE_URL -> tm.base_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Nested sections recurse; time.Duration is an int64 and stays a leaf.
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
