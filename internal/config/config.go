package config

// Config holds all application configuration. It is constructed once at
// process start and passed by reference into the constructors that need
// it; core logic never performs ambient configuration lookups.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication and bootstrap-user settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// FirstAdminEmail/FirstAdminPassword seed the initial admin account at
	// startup when no user with that email exists yet.
	FirstAdminEmail    string `mapstructure:"first_admin_email" validate:"required,email"`
	FirstAdminPassword string `mapstructure:"first_admin_password" validate:"required,min=8"`
}

// WorkerConfig contains the background-processing settings: broker sizing,
// the retry/backoff policy, and the per-attempt time limits.
type WorkerConfig struct {
	// Count determines how many concurrent workers consume jobs.
	Count int `mapstructure:"count" validate:"required,gt=0"`

	// QueueSize is the broker's delivery buffer capacity.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// MaxRetries is the number of additional attempts after the first
	// before a job's note is marked failed.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// RetryBaseDelaySeconds is the base of the exponential backoff between
	// attempts; RetryMaxDelaySeconds caps the computed delay.
	RetryBaseDelaySeconds int `mapstructure:"retry_base_delay_seconds" validate:"required,gt=0"`
	RetryMaxDelaySeconds  int `mapstructure:"retry_max_delay_seconds" validate:"required,gt=0"`

	// SoftTimeLimitSeconds flags a long-running attempt without stopping
	// it; HardTimeLimitSeconds forcibly abandons the attempt.
	SoftTimeLimitSeconds int `mapstructure:"soft_time_limit_seconds" validate:"required,gt=0"`
	HardTimeLimitSeconds int `mapstructure:"hard_time_limit_seconds" validate:"required,gt=0"`
}
