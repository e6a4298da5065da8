package queue

// Config holds the asynq connection and worker settings.
type Config struct {
	// Enabled moves the periodic sync pass and on-demand event syncs onto asynq.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Host is the redis host backing the queue.
	Host string `mapstructure:"host" default:"127.0.0.1"`
	// Port is the redis port backing the queue.
	Port int `mapstructure:"port" default:"6379"`
	// Password is the redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the redis database index.
	DB int `mapstructure:"db" default:"1"`
	// Concurrency is the number of tasks processed in parallel.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// Name is the queue tasks are enqueued on.
	Name string `mapstructure:"name" default:"freight"`
}
