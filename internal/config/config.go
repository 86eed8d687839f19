package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// SaveTimeout bounds how long a chat message save may delay fan-out.
	SaveTimeout time.Duration `mapstructure:"save_timeout" yaml:"save_timeout"`

	// MessageRateLimit caps inbound events per connection per minute. 0 disables.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`

	// AllowedOrigins lists origin patterns admitted at the WebSocket handshake.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	LiveKitAPIKey    string `mapstructure:"livekit_api_key" yaml:"livekit_api_key"`
	LiveKitAPISecret string `mapstructure:"livekit_api_secret" yaml:"livekit_api_secret"`
	LiveKitURL       string `mapstructure:"livekit_url" yaml:"livekit_url"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "meetwire.db",
		SaveTimeout:       2 * time.Second,
		MessageRateLimit:  0,
		AllowedOrigins:    []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.SaveTimeout != 0 {
		c.SaveTimeout = other.SaveTimeout
	}
	if other.MessageRateLimit != 0 {
		c.MessageRateLimit = other.MessageRateLimit
	}
	if len(other.AllowedOrigins) != 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.JWTSecret != "" {
		c.JWTSecret = other.JWTSecret
	}
	if other.JWTIssuer != "" {
		c.JWTIssuer = other.JWTIssuer
	}
	if other.JWTAudience != "" {
		c.JWTAudience = other.JWTAudience
	}
	if other.LiveKitAPIKey != "" {
		c.LiveKitAPIKey = other.LiveKitAPIKey
	}
	if other.LiveKitAPISecret != "" {
		c.LiveKitAPISecret = other.LiveKitAPISecret
	}
	if other.LiveKitURL != "" {
		c.LiveKitURL = other.LiveKitURL
	}
}
