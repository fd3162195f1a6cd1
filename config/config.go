package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Environment    string   `mapstructure:"environment"`
	Domain         string   `mapstructure:"domain"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether cookies must be marked secure.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig selects the store implementation. Driver is one of
// mongo, postgres, mysql or sqlite; URI is the mongo connection string or
// the SQL DSN.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	URI             string `mapstructure:"uri"`
	Name            string `mapstructure:"name"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  int    `mapstructure:"connect_timeout"`
}

// IsMongo reports whether the document store is selected.
func (d DatabaseConfig) IsMongo() bool {
	return d.Driver == "mongo" || d.Driver == "mongodb"
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis server was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	CookieName    string `mapstructure:"cookie_name"`
}

// TokenTTL returns the lifetime of issued tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type RateLimitConfig struct {
	IssuesPerDay int    `mapstructure:"issues_per_day"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

type StorageConfig struct {
	Dir            string `mapstructure:"dir"`
	BaseURL        string `mapstructure:"base_url"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type AnalyticsConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the configured analytics timezone, falling back to UTC.
func (a AnalyticsConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// legacyEnv maps config keys to the plain environment variables the service
// has always read, so existing deployments keep working.
var legacyEnv = map[string]string{
	"database.uri":         "MONGODB_URI",
	"auth.jwt_secret":      "JWT_SECRET",
	"redis.address":        "REDIS_ADDRESS",
	"redis.password":       "REDIS_PASSWORD",
	"ratelimit.key_prefix": "REDIS_QUEUE_FOR_ISSUE_LIMIT",
	"server.environment":   "GO_ENV",
	"server.domain":        "DOMAIN",
	"server.port":          "PORT",
}

// Load reads .env, an optional config file and the environment into a Config.
// An explicit path takes precedence over the default search locations.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CIVICSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		prefixed := "CIVICSYNC_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mongo", "mongodb", "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.URI == "" {
		return fmt.Errorf("database.uri must be set")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("auth.token_ttl_hours must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.domain", "")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.uri", "civicsync.db")
	v.SetDefault("database.name", "civicsync")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.connect_timeout", 10)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_hours", 72)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.cookie_name", "auth_token")

	v.SetDefault("ratelimit.issues_per_day", 10)
	v.SetDefault("ratelimit.key_prefix", "issue_limit")

	v.SetDefault("storage.dir", "uploads")
	v.SetDefault("storage.base_url", "/uploads")
	v.SetDefault("storage.max_upload_bytes", 10*1024*1024)

	v.SetDefault("analytics.timezone", "UTC")
}
