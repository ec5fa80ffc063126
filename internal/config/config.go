// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/danielolaszy/orderboard/internal/settings"
	"github.com/spf13/viper"
)

// DefaultTimeout applies to order store requests when INVENTREE_TIMEOUT is unset.
const DefaultTimeout = 30 * time.Second

// Config holds all configuration parameters for the application.
type Config struct {
	InvenTree InvenTreeConfig

	// Settings is the raw plugin settings bag, handed to settings.Decode
	// untouched. Only keys that were set appear.
	Settings map[string]any
}

// InvenTreeConfig holds order store connection settings.
type InvenTreeConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// LoadConfig reads configuration from environment variables and, when path
// is not empty, from a config file. Environment variables take precedence.
//
// Plugin settings are read from the top-level keys (ENABLE_BUILD, ...) or
// from a "settings" section of the config file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("inventree.timeout", DefaultTimeout)

	v.BindEnv("inventree.url", "INVENTREE_URL")
	v.BindEnv("inventree.token", "INVENTREE_TOKEN")
	v.BindEnv("inventree.timeout", "INVENTREE_TIMEOUT")
	for _, key := range settings.Keys {
		v.BindEnv(strings.ToLower(key), key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	config := &Config{
		InvenTree: InvenTreeConfig{
			URL:     strings.TrimRight(v.GetString("inventree.url"), "/"),
			Token:   v.GetString("inventree.token"),
			Timeout: v.GetDuration("inventree.timeout"),
		},
		Settings: map[string]any{},
	}

	for _, key := range settings.Keys {
		lower := strings.ToLower(key)
		if value := v.Get(lower); value != nil {
			config.Settings[key] = value
		} else if value := v.Get("settings." + lower); value != nil {
			config.Settings[key] = value
		}
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig ensures that all required configuration values are provided.
func ValidateConfig(config *Config) error {
	var missingVars []string

	if config.InvenTree.URL == "" {
		missingVars = append(missingVars, "INVENTREE_URL")
	}
	if config.InvenTree.Token == "" {
		missingVars = append(missingVars, "INVENTREE_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required configuration: %v", missingVars)
	}

	if config.InvenTree.Timeout <= 0 {
		return fmt.Errorf("INVENTREE_TIMEOUT must be positive, got %s", config.InvenTree.Timeout)
	}

	return nil
}
