package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
	SecureCookies bool   `mapstructure:"secure_cookies"`
	LoginRate     int    `mapstructure:"login_rate"` // attempts per minute per client IP
}

// AuthConfig holds the JWT settings for API tokens.
type AuthConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres or sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Path     string `mapstructure:"path"` // sqlite file
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		d.Host, d.User, d.Password, d.DBName, d.Port)
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// ScoringConfig controls the periodic ESG score recomputation.
type ScoringConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Weights  PillarWeights `mapstructure:"weights"`
}

// PillarWeights are the pillar weights of the overall ESG score.
type PillarWeights struct {
	Environment float64 `mapstructure:"environment"`
	Social      float64 `mapstructure:"social"`
	Governance  float64 `mapstructure:"governance"`
}

// SeedConfig points at the question bank loaded at startup.
type SeedConfig struct {
	QuestionsFile string `mapstructure:"questions_file"`
}

var (
	mu   sync.RWMutex
	conf *Config
)

// Get returns the current configuration. It is safe to call while the file
// watcher reloads.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return conf
}

func set(c *Config) {
	mu.Lock()
	conf = c
	mu.Unlock()
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me-session-secret")
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("server.login_rate", 5)

	// Auth defaults, matching the client cookie lifetimes (half a day / a day)
	v.SetDefault("auth.access_secret", "change-me-access-secret")
	v.SetDefault("auth.refresh_secret", "change-me-refresh-secret")
	v.SetDefault("auth.access_ttl", 12*time.Hour)
	v.SetDefault("auth.refresh_ttl", 24*time.Hour)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "esg-db")
	v.SetDefault("database.path", "esg.db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Scoring defaults
	v.SetDefault("scoring.interval", 15*time.Minute)
	v.SetDefault("scoring.weights.environment", 1.0/3)
	v.SetDefault("scoring.weights.social", 1.0/3)
	v.SetDefault("scoring.weights.governance", 1.0/3)

	v.SetDefault("seed.questions_file", "config/questions.yaml")
}

// Init loads the configuration with Viper and keeps it fresh on file changes.
func Init(projectRoot string, log *zap.Logger) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("ESG") // e.g., ESG_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	c, err := decode(v)
	if err != nil {
		return nil, err
	}
	set(c)

	// Hot reload. Settings read per request (weights, rate) pick up changes;
	// listeners and connections keep their startup values.
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		c, err := decode(v)
		if err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		set(c)
	})
	if v.ConfigFileUsed() != "" {
		v.WatchConfig()
	}

	log.Info("Configuration loaded successfully", zap.String("file", v.ConfigFileUsed()))
	return c, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	w := c.Scoring.Weights
	if w.Environment < 0 || w.Social < 0 || w.Governance < 0 || w.Environment+w.Social+w.Governance == 0 {
		return fmt.Errorf("pillar weights must be non-negative and not all zero")
	}
	return nil
}
