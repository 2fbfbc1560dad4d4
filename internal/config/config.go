package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/maximbilan/promptrelay/internal/validation"
	"github.com/spf13/viper"
)

const (
	// ConfigDirPerm is the permission for the config directory (0700 = rwx------)
	// Restrictive permissions protect the directory from being accessed by other users
	ConfigDirPerm os.FileMode = 0700
	// ConfigFilePerm is the permission for the config file (0600 = rw-------)
	// Restrictive permissions protect the API key from being read by other users
	ConfigFilePerm os.FileMode = 0600

	// DefaultModel is used by azure and openai when no model is configured
	DefaultModel = "gpt-4.1-nano"
	// DefaultAnthropicModel is used by anthropic when no model is configured
	DefaultAnthropicModel = "claude-3-5-haiku-latest"

	configDirName = ".promptrelay"
	envPrefix     = "PROMPTRELAY"
)

type Config struct {
	Provider              string `mapstructure:"provider"`
	Endpoint              string `mapstructure:"endpoint"`
	APIKey                string `mapstructure:"api_key"`
	APIVersion            string `mapstructure:"api_version"`
	Model                 string `mapstructure:"model"`
	Deployment            string `mapstructure:"deployment"`
	AnthropicAPIKey       string `mapstructure:"anthropic_api_key"`
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	WorkspaceEnabled      bool   `mapstructure:"workspace_enabled"`
	WorkspaceRoot         string `mapstructure:"workspace_root"`
	ImagesDir             string `mapstructure:"images_dir"`
}

// Addr returns the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RequestTimeout is the per-request provider deadline; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// applyModelDefault fills an unset model with the selected provider's default.
func (c *Config) applyModelDefault() {
	if c.Model != "" {
		return
	}
	if c.Provider == "anthropic" {
		c.Model = DefaultAnthropicModel
		return
	}
	c.Model = DefaultModel
}

// Validate checks the settings needed to build the provider and start the server
func (c *Config) Validate() error {
	if err := validation.ValidateProvider(c.Provider); err != nil {
		return err
	}
	switch c.Provider {
	case "azure":
		if err := validation.ValidateAPIKey(c.Provider, c.APIKey); err != nil {
			return fmt.Errorf("api_key: %w", err)
		}
		if err := validation.ValidateEndpoint(c.Endpoint); err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
	case "openai":
		if err := validation.ValidateAPIKey(c.Provider, c.APIKey); err != nil {
			return fmt.Errorf("api_key: %w", err)
		}
	case "anthropic":
		if err := validation.ValidateAPIKey(c.Provider, c.AnthropicAPIKey); err != nil {
			return fmt.Errorf("anthropic_api_key: %w", err)
		}
	}
	if err := validation.ValidateModel(c.Provider, c.Model); err != nil {
		return err
	}
	if err := validation.ValidatePort(c.Port); err != nil {
		return err
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment.
// A missing file is not an error; variables already set are left alone.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

func setDefaults() {
	viper.SetDefault("provider", "azure")
	viper.SetDefault("endpoint", "")
	viper.SetDefault("api_key", "")
	viper.SetDefault("api_version", "2024-12-01-preview")
	viper.SetDefault("model", "") // resolved per provider after loading
	viper.SetDefault("deployment", DefaultModel)
	viper.SetDefault("anthropic_api_key", "")
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 8000)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("request_timeout_seconds", 0) // no deadline beyond the client's own
	viper.SetDefault("workspace_enabled", false)
	viper.SetDefault("workspace_root", ".")
	viper.SetDefault("images_dir", filepath.Join("tester", "images"))
}

// bindEnv wires the provider's conventional variables and PROMPTRELAY_* for everything else.
func bindEnv() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("api_key", "AZURE_OPENAI_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("endpoint", "AZURE_OPENAI_ENDPOINT")
	_ = viper.BindEnv("api_version", "AZURE_OPENAI_API_VERSION")
	_ = viper.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
}

func Load() (*Config, error) {
	configPath, err := configDir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)

	setDefaults()
	bindEnv()

	// Try to read config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create directory
			if err := os.MkdirAll(configPath, ConfigDirPerm); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
			// Return config with defaults and environment
			config := &Config{}
			if err := viper.Unmarshal(config); err != nil {
				return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
			}
			config.applyModelDefault()
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.applyModelDefault()

	return &config, nil
}

func Save(cfg *Config) error {
	configPath, err := configDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configPath, ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set values
	viper.Set("provider", cfg.Provider)
	viper.Set("endpoint", cfg.Endpoint)
	viper.Set("api_key", cfg.APIKey)
	viper.Set("api_version", cfg.APIVersion)
	viper.Set("model", cfg.Model)
	viper.Set("deployment", cfg.Deployment)
	viper.Set("anthropic_api_key", cfg.AnthropicAPIKey)
	viper.Set("host", cfg.Host)
	viper.Set("port", cfg.Port)
	viper.Set("log_level", cfg.LogLevel)
	viper.Set("request_timeout_seconds", cfg.RequestTimeoutSeconds)
	viper.Set("workspace_enabled", cfg.WorkspaceEnabled)
	viper.Set("workspace_root", cfg.WorkspaceRoot)
	viper.Set("images_dir", cfg.ImagesDir)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Set restrictive permissions on the config file to protect API key
	if err := os.Chmod(configFile, ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

func Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("config key cannot be empty")
	}

	// Sanitize key to prevent injection
	key = strings.TrimSpace(key)
	if strings.ContainsAny(key, " \t\n\r") {
		return fmt.Errorf("config key contains invalid characters")
	}

	configPath, err := configDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configPath, ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)

	// Try to read existing config (ignore error if file doesn't exist)
	_ = viper.ReadInConfig()

	viper.Set(key, value)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		// If file doesn't exist, try SafeWriteConfigAs
		if err := viper.SafeWriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	// Set restrictive permissions on the config file to protect API key
	if err := os.Chmod(configFile, ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

func Get(key string) interface{} {
	if key == "" {
		return nil
	}

	configPath, err := configDir()
	if err != nil {
		return nil
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	_ = viper.ReadInConfig() // Ignore error if config doesn't exist
	return viper.Get(key)
}
