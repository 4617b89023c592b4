package config

import (
	"fmt"
	"net/url"
	"os"

	"price-quoter/src/helpers"
	"price-quoter/src/models"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

const (
	DefaultTooltipMinWidth = 500
	DefaultViewportWidth   = 1024
	DefaultPingInterval    = 30
	DefaultDialTimeout     = 10
	DefaultRetentionDays   = 7
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("failed to read config file '%s'", configPath), err)
	}

	return Parse(data)
}

// -----------------------------------------------------------------------------

// Parse builds a Config from raw YAML, applying defaults before validation.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, helpers.NewConfigurationError("failed to parse config from YAML", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, helpers.NewConfigurationError("config validation failed", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.UI.TooltipMinWidth == 0 {
		c.UI.TooltipMinWidth = DefaultTooltipMinWidth
	}
	if c.UI.ViewportWidth == 0 {
		c.UI.ViewportWidth = DefaultViewportWidth
	}
	if len(c.UI.Slots) == 0 {
		c.UI.Slots = []string{"top", "middle", "bottom"}
	}
	if c.Socket.PingIntervalSeconds == 0 {
		c.Socket.PingIntervalSeconds = DefaultPingInterval
	}
	if c.Socket.DialTimeoutSeconds == 0 {
		c.Socket.DialTimeoutSeconds = DefaultDialTimeout
	}
	if c.Socket.Language == "" {
		c.Socket.Language = "EN"
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = DefaultRetentionDays
	}
}

// -----------------------------------------------------------------------------

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var errs error

	if c.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("application name cannot be empty"))
	}

	// Server
	if c.Host == "" {
		errs = multierr.Append(errs, fmt.Errorf("server host cannot be empty"))
	}
	if c.Port <= 1024 || c.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port))
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		errs = multierr.Append(errs, fmt.Errorf("invalid grpc port number: %d", c.GrpcPort))
	}

	// Socket
	if c.Socket.URL == "" {
		errs = multierr.Append(errs, fmt.Errorf("socket url cannot be empty"))
	} else if u, err := url.Parse(c.Socket.URL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		errs = multierr.Append(errs, fmt.Errorf("socket url must be ws:// or wss://, got '%s'", c.Socket.URL))
	}
	if c.Socket.MaxRetries < 0 {
		errs = multierr.Append(errs, fmt.Errorf("socket retries cannot be negative"))
	}
	if c.Socket.NodeID < 0 || c.Socket.NodeID > 1023 {
		errs = multierr.Append(errs, fmt.Errorf("socket node_id must be between 0 and 1023"))
	}

	// Storage
	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			errs = multierr.Append(errs, fmt.Errorf("database path cannot be empty for sqlite"))
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			errs = multierr.Append(errs, fmt.Errorf("database connection string cannot be empty for postgres"))
		}
	case "none":
	default:
		errs = multierr.Append(errs, fmt.Errorf("unsupported database type '%s'", c.Storage.DBType))
	}

	// Trading
	if c.Trading.Form == "" {
		errs = multierr.Append(errs, fmt.Errorf("trading form cannot be empty"))
	} else if _, ok := c.Trading.Forms[c.Trading.Form]; !ok {
		errs = multierr.Append(errs, fmt.Errorf("trading form '%s' has no contract types", c.Trading.Form))
	}
	for form, types := range c.Trading.Forms {
		if len(types) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("form '%s' must list at least one contract type", form))
		}
	}

	// Form presets
	seen := make(map[string]bool)
	for i, f := range c.Form {
		if f.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("form field %d must have an id", i))
			continue
		}
		if seen[f.ID] {
			errs = multierr.Append(errs, fmt.Errorf("form field '%s' is declared twice", f.ID))
		}
		seen[f.ID] = true
	}

	return errs
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
