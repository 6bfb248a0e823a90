package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is sent when no user agent is configured
	DefaultUserAgent = "Mozilla/5.0 (compatible; InstagramProfileScraperPro/1.0)"

	// DefaultBaseURL is the host profile pages are fetched from
	DefaultBaseURL = "https://www.instagram.com"

	// MaxConcurrentRequests caps the worker pool size
	MaxConcurrentRequests = 64
)

// Config holds all configuration options for the profile scraper.
// The top-level keys match the flat settings layout so JSON settings
// files load through the same YAML decoder.
type Config struct {
	MaxPosts           int     `yaml:"max_posts" json:"max_posts"`
	RequestTimeout     Seconds `yaml:"request_timeout" json:"request_timeout"`
	UserAgent          string  `yaml:"user_agent" json:"user_agent"`
	ConcurrentRequests int     `yaml:"concurrent_requests" json:"concurrent_requests"`
	BaseURL            string  `yaml:"base_url" json:"base_url"`

	// Input is the usernames file, one username per line
	Input string `yaml:"input" json:"input"`

	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// Seconds is a duration expressed as (fractional) seconds in config files
type Seconds float64

// Duration converts s to a time.Duration
func (s Seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// OutputConfig holds export destinations. An empty path disables that format.
type OutputConfig struct {
	JSON string `yaml:"json" json:"json"`
	CSV  string `yaml:"csv" json:"csv"`
	XLSX string `yaml:"xlsx" json:"xlsx"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	ListenAddress string `yaml:"listen_address" json:"listen_address"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxPosts:           12,
		RequestTimeout:     10,
		UserAgent:          DefaultUserAgent,
		ConcurrentRequests: 4,
		BaseURL:            DefaultBaseURL,
		Input:              "data/input_usernames.txt",
		Output: OutputConfig{
			JSON: "data/results.json",
			CSV:  "data/results.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from IGPROFILER_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("IGPROFILER_MAX_POSTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGPROFILER_MAX_POSTS: %w", err))
		} else {
			c.MaxPosts = n
		}
	}
	if v := os.Getenv("IGPROFILER_REQUEST_TIMEOUT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGPROFILER_REQUEST_TIMEOUT: %w", err))
		} else {
			c.RequestTimeout = Seconds(f)
		}
	}
	if v := os.Getenv("IGPROFILER_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("IGPROFILER_CONCURRENT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGPROFILER_CONCURRENT_REQUESTS: %w", err))
		} else {
			c.ConcurrentRequests = n
		}
	}
	if v := os.Getenv("IGPROFILER_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("IGPROFILER_INPUT"); v != "" {
		c.Input = v
	}
	if v := os.Getenv("IGPROFILER_OUTPUT_JSON"); v != "" {
		c.Output.JSON = v
	}
	if v := os.Getenv("IGPROFILER_OUTPUT_CSV"); v != "" {
		c.Output.CSV = v
	}
	if v := os.Getenv("IGPROFILER_OUTPUT_XLSX"); v != "" {
		c.Output.XLSX = v
	}
	if v := os.Getenv("IGPROFILER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("IGPROFILER_METRICS_ADDR"); v != "" {
		c.Metrics.ListenAddress = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML (or JSON) file.
// With an empty path the default locations are searched and a miss is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		"igprofiler.yaml",
		"igprofiler.yml",
		"settings.json",
		filepath.Join(os.Getenv("HOME"), ".config", "igprofiler", "config.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.MaxPosts <= 0 {
		errs = append(errs, errors.New("max_posts must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		errs = append(errs, errors.New("user_agent is required"))
	}
	if c.ConcurrentRequests <= 0 {
		errs = append(errs, errors.New("concurrent_requests must be positive"))
	}
	if c.ConcurrentRequests > MaxConcurrentRequests {
		errs = append(errs, fmt.Errorf("concurrent_requests should not exceed %d", MaxConcurrentRequests))
	}

	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys that are present and non-zero override the current values.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["max-posts"].(int); ok && v > 0 {
		c.MaxPosts = v
	}
	if v, ok := flags["concurrent"].(int); ok && v > 0 {
		c.ConcurrentRequests = v
	}
	if v, ok := flags["timeout"].(float64); ok && v > 0 {
		c.RequestTimeout = Seconds(v)
	}
	if v, ok := flags["user-agent"].(string); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := flags["input"].(string); ok && v != "" {
		c.Input = v
	}
	if v, ok := flags["json"].(string); ok && v != "" {
		c.Output.JSON = v
	}
	if v, ok := flags["csv"].(string); ok && v != "" {
		c.Output.CSV = v
	}
	if v, ok := flags["xlsx"].(string); ok && v != "" {
		c.Output.XLSX = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["metrics-addr"].(string); ok && v != "" {
		c.Metrics.ListenAddress = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igprofiler.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
