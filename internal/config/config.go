package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// DefaultNamespace is the key of the durable state record.
const DefaultNamespace = "steal-a-brainrot-state-v1"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	App     AppConfig
	StateDB StateDBConfig
	Cache   CacheConfig
	Backup  BackupConfig
	Seed    SeedConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"steal-a-brainrot"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	Namespace   string `envconfig:"STORE_NAMESPACE" default:"steal-a-brainrot-state-v1"`
}

// StateDBConfig holds durable state record settings.
type StateDBConfig struct {
	Type string `envconfig:"STATE_DB_TYPE" default:"sqlite"` // sqlite, postgres, mysql, mongodb or memory
	Path string `envconfig:"STATE_DB_PATH" default:"./data/storefront.db"`
	// PostgreSQL settings
	Host     string `envconfig:"STATE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STATE_DB_PORT" default:"5432"`
	Name     string `envconfig:"STATE_DB_NAME" default:"storefront"`
	User     string `envconfig:"STATE_DB_USER" default:"postgres"`
	Password string `envconfig:"STATE_DB_PASS" default:""`
	SSLMode  string `envconfig:"STATE_DB_SSLMODE" default:"disable"`
	// MySQL settings
	MySQLHost     string `envconfig:"MYSQL_HOST" default:"localhost"`
	MySQLPort     int    `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLName     string `envconfig:"MYSQL_NAME" default:"storefront"`
	MySQLUser     string `envconfig:"MYSQL_USER" default:"root"`
	MySQLPassword string `envconfig:"MYSQL_PASS" default:""`
	// MongoDB settings
	MongoURI        string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase   string `envconfig:"MONGODB_DATABASE" default:"storefront"`
	MongoCollection string `envconfig:"MONGODB_COLLECTION" default:"state"`
}

// CacheConfig holds settings for the session record cache.
type CacheConfig struct {
	Type       string        `envconfig:"CACHE_TYPE" default:"memory"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// BackupConfig holds settings for durable record backups.
type BackupConfig struct {
	Driver    string        `envconfig:"BACKUP_DRIVER" default:"none"` // none or s3
	Bucket    string        `envconfig:"BACKUP_S3_BUCKET" default:""`
	Region    string        `envconfig:"BACKUP_S3_REGION" default:"us-east-1"`
	Endpoint  string        `envconfig:"BACKUP_S3_ENDPOINT" default:""`
	PathStyle bool          `envconfig:"BACKUP_S3_PATH_STYLE" default:"false"`
	Prefix    string        `envconfig:"BACKUP_S3_PREFIX" default:"backups"`
	Interval  time.Duration `envconfig:"BACKUP_INTERVAL" default:"0s"`
}

// SeedConfig holds settings for the initial catalog.
type SeedConfig struct {
	File string `envconfig:"SEED_FILE" default:""`
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StateDBConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, s.Port, s.Name, s.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (s *StateDBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.MySQLUser, s.MySQLPassword, s.MySQLHost, s.MySQLPort, s.MySQLName)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Enabled reports whether a backup driver is configured.
func (b *BackupConfig) Enabled() bool {
	return b.Driver != "" && b.Driver != "none"
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.App.Namespace == "" {
		cfg.App.Namespace = DefaultNamespace
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
