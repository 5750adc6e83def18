package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Session         SessionConfig        `mapstructure:"session"`
	Logging         LoggingConfig        `mapstructure:"logging"`
}

type ServiceConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLDriver string

const (
	PostgresDriver SQLDriver = "postgres"
	MemoryDriver   SQLDriver = "memory"
)

type SQLConfig struct {
	Host             string    `mapstructure:"host"`
	Port             string    `mapstructure:"port"`
	Username         string    `mapstructure:"username"`
	Password         string    `mapstructure:"password"`
	Driver           SQLDriver `mapstructure:"driver"`
	Database         string    `mapstructure:"database"`
	ConnectionString string    `mapstructure:"connection_string"`
	AutoMigrate      bool      `mapstructure:"autoMigrate"`
	MaxConns         int32     `mapstructure:"maxConns"`
}

// DSN returns the explicit connection string when set, otherwise one built
// from the individual fields.
func (c SQLConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.Username, c.Password, c.Database, c.Port)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

type ExternalClientConfig struct {
	Quotes QuotesConfig `mapstructure:"quotes"`
	AWS    AWSConfig    `mapstructure:"aws"`
}

type QuotesConfig struct {
	BaseURL        string        `mapstructure:"baseUrl"`
	APIKey         string        `mapstructure:"apiKey"`
	APIKeySecretID string        `mapstructure:"apiKeySecretId"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CacheTTL       time.Duration `mapstructure:"cacheTTL"`
}

type AWSConfig struct {
	Region     string `mapstructure:"region"`
	Endpoint   string `mapstructure:"endpoint"`
	MaxRetries int    `mapstructure:"maxRetries"`
}

type SessionStore string

const (
	RedisSessionStore  SessionStore = "redis"
	MemorySessionStore SessionStore = "memory"
)

type SessionConfig struct {
	Store      SessionStore  `mapstructure:"store"`
	CookieName string        `mapstructure:"cookieName"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	ToFile   bool   `mapstructure:"toFile"`
	FilePath string `mapstructure:"filePath"`
}

var ErrMissingAPIKey = errors.New("API_KEY not set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.readTimeout", 30*time.Second)
	v.SetDefault("service.writeTimeout", 30*time.Second)
	v.SetDefault("service.requestTimeout", 10*time.Second)

	v.SetDefault("databases.sql.driver", string(PostgresDriver))
	v.SetDefault("databases.sql.autoMigrate", true)
	v.SetDefault("databases.sql.maxConns", 10)

	v.SetDefault("externalClients.quotes.baseUrl", "https://api.iex.cloud")
	v.SetDefault("externalClients.quotes.timeout", 5*time.Second)
	v.SetDefault("externalClients.quotes.cacheTTL", 15*time.Second)
	v.SetDefault("externalClients.quotes.apiKeySecretId", "")
	v.SetDefault("externalClients.aws.region", "us-east-1")
	v.SetDefault("externalClients.aws.maxRetries", 3)

	v.SetDefault("databases.redis.host", "localhost")
	v.SetDefault("databases.redis.port", "6379")
	v.SetDefault("databases.redis.password", "")

	v.SetDefault("session.store", string(RedisSessionStore))
	v.SetDefault("session.cookieName", "session")
	v.SetDefault("session.ttl", 24*time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.filePath", "finance.log")
}

// LoadConfig reads appsettings.yaml from path, merges appsettings.<env>.yaml
// on top when env is given and applies environment overrides. Missing files
// are not an error; every key has a default.
func LoadConfig(path string, env string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if env != "" {
		v.SetConfigName("appsettings." + strings.ToUpper(env))
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("externalClients.quotes.apiKey", "API_KEY", "EXTERNALCLIENTS_QUOTES_APIKEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("databases.sql.connection_string", "DATABASE_URL", "DATABASES_SQL_CONNECTION_STRING"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings and that some source for the quote API
// key is configured. The key itself may still need resolving from AWS.
func (c *Config) Validate() error {
	switch c.Databases.SQL.Driver {
	case PostgresDriver, MemoryDriver:
	default:
		return fmt.Errorf("unknown sql driver %q", c.Databases.SQL.Driver)
	}
	switch c.Session.Store {
	case RedisSessionStore, MemorySessionStore:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name must not be empty")
	}
	if c.ExternalClients.Quotes.APIKey == "" && c.ExternalClients.Quotes.APIKeySecretID == "" {
		return ErrMissingAPIKey
	}
	return nil
}
