package models

// Config represents application configuration
type Config struct {
	App    AppConfig
	Server ServerConfig
	Remote RemoteConfig
	Redis  RedisConfig
	NATS   NATSConfig
	JWT    JWTConfig
	Logger LoggerConfig
	Notify NotifyConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// RemoteConfig points at the marketplace system of record
type RemoteConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// RedisConfig contains Redis connection configuration for the shared cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains session token configuration for the UI-facing surface
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level string
}

// NotifyConfig bounds the in-memory notification feed
type NotifyConfig struct {
	Limit int
}
