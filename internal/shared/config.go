package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override credentials from the config file.
const (
	EnvBaseURL        = "GALX_BASE_URL"
	EnvConsumerKey    = "GALX_CONSUMER_KEY"
	EnvConsumerSecret = "GALX_CONSUMER_SECRET"
	EnvToken          = "GALX_TOKEN"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog     CatalogConfig     `toml:"catalog"`
	Credentials CredentialsConfig `toml:"credentials"`
	Run         RunConfig         `toml:"run"`
	Journal     JournalConfig     `toml:"journal"`
	Log         LogConfig         `toml:"log"`
}

// CatalogConfig describes the remote store and its REST endpoints.
type CatalogConfig struct {
	BaseURL   string   `toml:"base_url"`
	ItemsPath string   `toml:"items_path"`
	MediaPath string   `toml:"media_path"`
	Timeout   Duration `toml:"timeout"`
	RateLimit float64  `toml:"rate_limit"` // requests per second, 0 disables pacing
}

// CredentialsConfig contains the REST API key pair and an optional bearer token.
type CredentialsConfig struct {
	ConsumerKey    string `toml:"consumer_key"`
	ConsumerSecret string `toml:"consumer_secret"`
	Token          string `toml:"token"`
}

// RunConfig holds defaults for run flags.
type RunConfig struct {
	BatchSize int      `toml:"batch_size"`
	Order     string   `toml:"order"`
	Mode      string   `toml:"mode"`
	Position  string   `toml:"position"`
	Interval  Duration `toml:"interval"`
}

// JournalConfig contains change journal database settings.
type JournalConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig controls log level and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration wraps [time.Duration] so it can be written as "5s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads a .env file when present and overrides the base URL and credentials from GALX_* variables.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	for env, target := range map[string]*string{
		EnvBaseURL:        &c.Catalog.BaseURL,
		EnvConsumerKey:    &c.Credentials.ConsumerKey,
		EnvConsumerSecret: &c.Credentials.ConsumerSecret,
		EnvToken:          &c.Credentials.Token,
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*target = v
		}
	}
}

// Validate reports whether the config can reach a catalog.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("%w: catalog.base_url is empty", ErrInvalidConfig)
	}
	if c.Credentials.Token == "" && (c.Credentials.ConsumerKey == "" || c.Credentials.ConsumerSecret == "") {
		return fmt.Errorf("%w: set consumer_key/consumer_secret or token", ErrMissingCredentials)
	}
	if c.Run.BatchSize <= 0 {
		return fmt.Errorf("%w: run.batch_size must be positive", ErrInvalidConfig)
	}
	return nil
}
