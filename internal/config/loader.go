package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDirName  = ".refract"
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "REFRACT"
)

// Load loads the configuration from file, environment variables, and defaults.
// It returns a Config struct populated with values from these sources in order of precedence:
// 1. Environment variables (REFRACT_ prefix)
// 2. Configuration file (~/.refract/config.yaml)
// 3. Default values
func Load() (*Config, error) {
	if err := initViper(""); err != nil {
		return nil, fmt.Errorf("failed to initialize viper: %w", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand home directory paths in the loaded config
	expandConfigPaths(&cfg)

	return &cfg, nil
}

// LoadFrom loads the configuration from an explicit file path instead of the
// default ~/.refract/config.yaml location. Environment overrides and defaults
// still apply.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		return Load()
	}

	if err := initViper(path); err != nil {
		return nil, fmt.Errorf("failed to initialize viper: %w", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	expandConfigPaths(&cfg)

	return &cfg, nil
}

// initViper initializes Viper with configuration file path, environment variable prefix, and settings
func initViper(explicitPath string) error {
	configPath := explicitPath
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, configDirName, configFileName+"."+configFileType)
	}

	// Set config file path
	viper.SetConfigFile(configPath)

	// Set environment variable prefix
	viper.SetEnvPrefix(envPrefix)

	// Enable automatic environment variable reading
	viper.AutomaticEnv()

	// Replace dots and dashes with underscores in env var names
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try to read the config file (it's okay if it doesn't exist)
	if err := viper.ReadInConfig(); err != nil {
		// Ignore file not found errors - we'll use defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !os.IsNotExist(err) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, use literal ~ which will be expanded later
		homeDir = "~"
	}

	// Diff construction
	viper.SetDefault("diff.context_lines", 3)
	viper.SetDefault("diff.detect_renames", true)
	viper.SetDefault("diff.rename_threshold", 50)
	viper.SetDefault("diff.detect_copies", true)
	viper.SetDefault("diff.copy_threshold", 100)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file_path", filepath.Join(homeDir, configDirName, "refract.log"))
	viper.SetDefault("logging.console", true)

	// Storage paths
	viper.SetDefault("storage.base_path", filepath.Join(homeDir, configDirName))
	viper.SetDefault("storage.database_path", filepath.Join(homeDir, configDirName, "refract.db"))
}

// expandHomeDir expands ~ in a path to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// If we can't get home dir, return path as-is
			return path
		}
		if path == "~" {
			return homeDir
		}
		if strings.HasPrefix(path, "~/") {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// expandConfigPaths expands all ~ paths in the configuration struct
func expandConfigPaths(cfg *Config) {
	cfg.Logging.FilePath = expandHomeDir(cfg.Logging.FilePath)
	cfg.Storage.BasePath = expandHomeDir(cfg.Storage.BasePath)
	cfg.Storage.DatabasePath = expandHomeDir(cfg.Storage.DatabasePath)
}
