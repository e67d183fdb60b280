package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default endpoint and model selection. The analysis model must support
// structured JSON output; the image model must support inline image replies.
const (
	DefaultEndpoint      = "https://generativelanguage.googleapis.com"
	DefaultAnalysisModel = "gemini-2.5-flash"
	DefaultImageModel    = "gemini-2.5-flash-image"
	DefaultTimeout       = 120 * time.Second
)

// APIKeyEnv is the environment variable consulted when the config file does
// not provide a key.
const APIKeyEnv = "GEMINI_API_KEY"

// Config holds runtime configuration. Values come from an optional YAML file
// plus CLI flags; the API key may also come from the environment.
type Config struct {
	APIKey        string `yaml:"api_key,omitempty"`
	Endpoint      string `yaml:"endpoint,omitempty"`
	AnalysisModel string `yaml:"analysis_model,omitempty"`
	ImageModel    string `yaml:"image_model,omitempty"`
	TimeoutSec    int    `yaml:"timeout_seconds,omitempty"`
	OutputDir     string `yaml:"output_dir,omitempty"`
	StrictVerdict bool   `yaml:"strict_verdict,omitempty"`

	// Timeout is derived from TimeoutSec during load.
	Timeout time.Duration `yaml:"-"`
}

// LoadConfig reads a YAML config file and fills defaults. A missing file is
// not an error: callers get a default config driven by flags and env.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(APIKeyEnv)
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.AnalysisModel == "" {
		c.AnalysisModel = DefaultAnalysisModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.TimeoutSec > 0 {
		c.Timeout = time.Duration(c.TimeoutSec) * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.OutputDir == "" {
		c.OutputDir = "preflight-results"
	}
}

// HasCredentials is the credential gate: no remote call may be attempted
// unless it returns true.
func (c *Config) HasCredentials() bool {
	return c.APIKey != ""
}
