package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ligustah/sip/internal/progress"
)

// Config defines configuration for the sip CLI.
type Config struct {
	URL          string
	RangeStart   int64
	RangeEnd     int64
	Timeout      time.Duration
	ResponseType string // "binary" or "text"
	Progress     bool
	Output       string // local file path, "-" for stdout
	Bucket       string // gocloud bucket URL (s3://, gs://, mem://)
	Object       string // object key within the bucket
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Timeout:      30 * time.Second,
		ResponseType: "binary",
		Output:       "-",
	}
}

// yamlConfig is used for YAML unmarshaling; byte sizes and durations
// come in as human-readable strings.
type yamlConfig struct {
	URL          string `yaml:"url"`
	RangeStart   string `yaml:"range_start"`
	RangeEnd     string `yaml:"range_end"`
	Timeout      string `yaml:"timeout"`
	ResponseType string `yaml:"response_type"`
	Progress     bool   `yaml:"progress"`
	Output       string `yaml:"output"`
	Bucket       string `yaml:"bucket"`
	Object       string `yaml:"object"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.URL != "" {
		cfg.URL = yc.URL
	}
	if yc.RangeStart != "" {
		n, err := progress.ParseBytes(yc.RangeStart)
		if err != nil {
			return Config{}, fmt.Errorf("parse range_start: %w", err)
		}
		cfg.RangeStart = n
	}
	if yc.RangeEnd != "" {
		n, err := progress.ParseBytes(yc.RangeEnd)
		if err != nil {
			return Config{}, fmt.Errorf("parse range_end: %w", err)
		}
		cfg.RangeEnd = n
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.ResponseType != "" {
		cfg.ResponseType = yc.ResponseType
	}
	cfg.Progress = yc.Progress
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	if yc.Object != "" {
		cfg.Object = yc.Object
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables, reading a
// .env file first if one is present. Environment variables use the SIP_
// prefix.
func (c *Config) LoadFromEnv() error {
	// Missing .env is not an error; explicit env vars still apply.
	_ = godotenv.Load()

	if v := os.Getenv("SIP_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("SIP_RANGE_START"); v != "" {
		n, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse SIP_RANGE_START: %w", err)
		}
		c.RangeStart = n
	}
	if v := os.Getenv("SIP_RANGE_END"); v != "" {
		n, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse SIP_RANGE_END: %w", err)
		}
		c.RangeEnd = n
	}
	if v := os.Getenv("SIP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SIP_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("SIP_RESPONSE_TYPE"); v != "" {
		c.ResponseType = v
	}
	if v := os.Getenv("SIP_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("SIP_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("SIP_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("SIP_OBJECT"); v != "" {
		c.Object = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("config: URL is required")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.RangeEnd != 0 && c.RangeEnd <= c.RangeStart {
		return errors.New("config: range_end must be greater than range_start")
	}
	if c.RangeStart < 0 || c.RangeEnd < 0 {
		return errors.New("config: range bounds must be non-negative")
	}
	if c.ResponseType != "binary" && c.ResponseType != "text" {
		return fmt.Errorf("config: unknown response_type %q", c.ResponseType)
	}
	if c.Bucket != "" && c.Object == "" {
		return errors.New("config: object is required when bucket is set")
	}
	if c.Bucket == "" && c.Object != "" {
		return errors.New("config: bucket is required when object is set")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.URL != "" {
		c.URL = override.URL
	}
	if override.RangeStart != 0 {
		c.RangeStart = override.RangeStart
	}
	if override.RangeEnd != 0 {
		c.RangeEnd = override.RangeEnd
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.ResponseType != "" {
		c.ResponseType = override.ResponseType
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.Object != "" {
		c.Object = override.Object
	}
	return c
}
