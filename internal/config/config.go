package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the reagent service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Model    ModelConfig    `yaml:"model"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Runs     RunsConfig     `yaml:"runs"`
	Database DatabaseConfig `yaml:"database"`
	Agent    AgentConfig    `yaml:"agent"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ModelConfig holds language model provider settings (OpenAI-compatible).
type ModelConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// CorpusConfig holds processed corpus settings.
type CorpusConfig struct {
	Dir string `yaml:"dir"`
}

// RunsConfig holds run persistence settings.
type RunsConfig struct {
	Driver    string `yaml:"driver"` // file, redis (default: file)
	Dir       string `yaml:"dir"`    // file driver
	KeyPrefix string `yaml:"key_prefix"`
}

// DatabaseConfig holds Redis connection settings (redis runs driver).
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AgentConfig holds control loop settings.
type AgentConfig struct {
	MaxSteps int  `yaml:"max_steps"`
	Verbose  bool `yaml:"verbose"`
}

// IngestConfig holds article ingestion settings.
type IngestConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	Query           string `yaml:"query"`
	Language        string `yaml:"language"`
	PageSize        int    `yaml:"page_size"`
	Pages           int    `yaml:"pages"`
	WindowDays      int    `yaml:"window_days"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Long enough for a multi-step agent run with a slow model.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Model.MaxTokens <= 0 {
		c.Model.MaxTokens = 160
	}
	if c.Model.Temperature <= 0 {
		c.Model.Temperature = 0.3
	}
	if c.Corpus.Dir == "" {
		c.Corpus.Dir = filepath.Join("data", "processed")
	}
	if c.Runs.Driver == "" {
		c.Runs.Driver = "file"
	}
	if c.Runs.Dir == "" {
		c.Runs.Dir = filepath.Join("data", "agent_runs")
	}
	if c.Runs.KeyPrefix == "" {
		c.Runs.KeyPrefix = "reagent:"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Agent.MaxSteps <= 0 {
		c.Agent.MaxSteps = 6
	}
	if c.Ingest.Language == "" {
		c.Ingest.Language = "en"
	}
	if c.Ingest.PageSize <= 0 {
		c.Ingest.PageSize = 100
	}
	if c.Ingest.Pages <= 0 {
		c.Ingest.Pages = 3
	}
	if c.Ingest.WindowDays <= 0 {
		c.Ingest.WindowDays = 30
	}
	if c.Ingest.FetchTimeoutSec <= 0 {
		c.Ingest.FetchTimeoutSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Model.Model == "" {
		return fmt.Errorf("model.model is required")
	}
	switch c.Runs.Driver {
	case "file", "redis":
		// ok
	default:
		return fmt.Errorf("runs.driver must be \"file\" or \"redis\", got %q", c.Runs.Driver)
	}
	if c.Runs.Driver == "redis" && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required for the redis runs driver")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
