// Package config provides configuration management for the scraper service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shelfwise/crawler/internal/logger"
)

// Default configuration values.
const (
	defaultServerPort        = 8080
	defaultReadTimeout       = 30 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultDBHost            = "localhost"
	defaultDBPort            = 5432
	defaultDBUser            = "postgres"
	defaultDBName            = "catalog"
	defaultDBSSLMode         = "disable"
	defaultBaseURL           = "https://www.worldofbooks.com"
	defaultFetchTimeout      = 45 * time.Second
	defaultFetchMaxAttempts  = 3
	defaultFetchUserAgent    = "shelfwise-crawler/1.0"
	defaultWorkerPoolSize    = 4
	defaultWorkerDrainWait   = 30 * time.Second
	defaultStuckJobThreshold = 30 * time.Minute
	defaultQueueCapacity     = 256
	defaultRescrapeTTL       = time.Hour
	defaultRescrapeSchedule  = "@every 1h"
	defaultESAddress         = "http://localhost:9200"
	defaultESProductIndex    = "products"
)

// Config is the root configuration for all components.
type Config struct {
	App      AppConfig      `mapstructure:"app"      yaml:"app"`
	Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Fetch    FetchConfig    `mapstructure:"fetch"    yaml:"fetch"`
	Worker   WorkerConfig   `mapstructure:"worker"   yaml:"worker"`
	Queue    QueueConfig    `mapstructure:"queue"    yaml:"queue"`
	Rescrape RescrapeConfig `mapstructure:"rescrape" yaml:"rescrape"`
	Search   SearchConfig   `mapstructure:"search"   yaml:"search"`
	Logging  logger.Config  `mapstructure:"logging"  yaml:"logging"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"        yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
	Debug       bool   `mapstructure:"debug"       yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"       yaml:"address"`
	Port         int           `mapstructure:"port"          yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"  yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"  yaml:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"     yaml:"host"`
	Port     int    `mapstructure:"port"     yaml:"port"`
	User     string `mapstructure:"user"     yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
	SSLMode  string `mapstructure:"sslmode"  yaml:"sslmode"`
}

// FetchConfig holds page fetching settings.
type FetchConfig struct {
	// Engine selects the page fetcher: "chrome" renders JavaScript with a
	// headless browser, "colly" fetches static HTML only.
	Engine string `mapstructure:"engine" yaml:"engine"`
	// BaseURL is the root of the source site, used for navigation scrapes.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Timeout bounds a single page load.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// MaxAttempts is the fixed retry budget for a page load.
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`
	// UserAgent identifies the scraper to the source site.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	// Headless disables the browser UI for the rendering fetcher.
	Headless bool `mapstructure:"headless" yaml:"headless"`
}

// WorkerConfig holds worker pool settings.
type WorkerConfig struct {
	PoolSize       int           `mapstructure:"pool_size"       yaml:"pool_size"`
	DrainTimeout   time.Duration `mapstructure:"drain_timeout"   yaml:"drain_timeout"`
	StuckThreshold time.Duration `mapstructure:"stuck_threshold" yaml:"stuck_threshold"`
}

// QueueConfig holds task queue settings.
type QueueConfig struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// RescrapeConfig holds the staleness-driven rescrape schedule.
type RescrapeConfig struct {
	Enabled  bool          `mapstructure:"enabled"  yaml:"enabled"`
	TTL      time.Duration `mapstructure:"ttl"      yaml:"ttl"`
	Schedule string        `mapstructure:"schedule" yaml:"schedule"`
}

// SearchConfig holds the optional Elasticsearch product index settings.
type SearchConfig struct {
	Enabled      bool   `mapstructure:"enabled"       yaml:"enabled"`
	Address      string `mapstructure:"address"       yaml:"address"`
	Username     string `mapstructure:"username"      yaml:"username"`
	Password     string `mapstructure:"password"      yaml:"password"`
	ProductIndex string `mapstructure:"product_index" yaml:"product_index"`
}

// Load reads configuration from the given file (optional) with environment
// variable overrides (prefix CRAWLER_, e.g. CRAWLER_DATABASE_PASSWORD).
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/crawler")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "crawler")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultIdleTimeout)

	v.SetDefault("database.host", defaultDBHost)
	v.SetDefault("database.port", defaultDBPort)
	v.SetDefault("database.user", defaultDBUser)
	v.SetDefault("database.database", defaultDBName)
	v.SetDefault("database.sslmode", defaultDBSSLMode)

	v.SetDefault("fetch.engine", "chrome")
	v.SetDefault("fetch.base_url", defaultBaseURL)
	v.SetDefault("fetch.timeout", defaultFetchTimeout)
	v.SetDefault("fetch.max_attempts", defaultFetchMaxAttempts)
	v.SetDefault("fetch.user_agent", defaultFetchUserAgent)
	v.SetDefault("fetch.headless", true)

	v.SetDefault("worker.pool_size", defaultWorkerPoolSize)
	v.SetDefault("worker.drain_timeout", defaultWorkerDrainWait)
	v.SetDefault("worker.stuck_threshold", defaultStuckJobThreshold)

	v.SetDefault("queue.capacity", defaultQueueCapacity)

	v.SetDefault("rescrape.enabled", false)
	v.SetDefault("rescrape.ttl", defaultRescrapeTTL)
	v.SetDefault("rescrape.schedule", defaultRescrapeSchedule)

	v.SetDefault("search.enabled", false)
	v.SetDefault("search.address", defaultESAddress)
	v.SetDefault("search.product_index", defaultESProductIndex)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Fetch.Engine {
	case "chrome", "colly":
	default:
		return fmt.Errorf("invalid fetch engine: %s", c.Fetch.Engine)
	}
	if c.Fetch.BaseURL == "" {
		return errors.New("fetch.base_url must be set")
	}
	if c.Fetch.MaxAttempts < 1 {
		return errors.New("fetch.max_attempts must be at least 1")
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be positive")
	}

	if c.Worker.PoolSize < 1 {
		return errors.New("worker.pool_size must be at least 1")
	}
	if c.Queue.Capacity < 1 {
		return errors.New("queue.capacity must be at least 1")
	}

	if c.Rescrape.Enabled && c.Rescrape.TTL <= 0 {
		return errors.New("rescrape.ttl must be positive")
	}

	if c.Search.Enabled && c.Search.Address == "" {
		return errors.New("search.address must be set when search is enabled")
	}

	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
