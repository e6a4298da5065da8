// Package config loads the application configuration.
//
// Values come from the environment, optionally seeded from a .env file via
// godotenv. Defaults live in the `default` struct tags of every section and are
// registered with viper by reflection, so each key can be overridden by an
// environment variable named after its path (tm.base_url -> TM_BASE_URL).
//
// Sections: server, log, database, tm, scheduler, queue, redis, tracking, storage.
package config
