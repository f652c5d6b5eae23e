package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	configFilePerm = 0600 // Read/write for user only
	configDirPerm  = 0755 // Read/write/execute for user, read/execute for group/others
)

// EnsureConfigFile ensures that the configuration file exists.
// If it doesn't exist, creates it with default values.
// This should be called before loading configuration to ensure the file exists.
// Security: Resolves symlinks and validates paths are within home directory to prevent symlink attacks.
func EnsureConfigFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, configDirName)

	// Resolve symlinks to prevent symlink attacks
	resolvedConfigDir, err := filepath.EvalSymlinks(configDir)
	if err != nil {
		// If directory doesn't exist yet, that's okay - we'll create it
		// But verify the path we're about to create is safe
		if !isPathWithinHome(configDir, homeDir) {
			return fmt.Errorf("config directory path is outside home directory")
		}
		resolvedConfigDir = configDir
	} else {
		// Verify resolved path is within home directory
		if !isPathWithinHome(resolvedConfigDir, homeDir) {
			return fmt.Errorf("config directory resolves to path outside home directory")
		}
	}

	configPath := filepath.Join(resolvedConfigDir, configFileName+"."+configFileType)

	// Check if config file already exists (using resolved path)
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		// Some other error checking file
		return fmt.Errorf("failed to check config file: %w", err)
	}

	// Config file doesn't exist - create it with defaults
	if err := os.MkdirAll(resolvedConfigDir, configDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates the default configuration file.
// Paths use ~ notation and are expanded when loaded.
func CreateDefaultConfig() error {
	defaultCfg := &Config{
		Diff: DiffConfig{
			ContextLines:    3,
			DetectRenames:   true,
			RenameThreshold: 50,
			DetectCopies:    true,
			CopyThreshold:   100,
		},
		Logging: LoggingConfig{
			Level:    "info",
			FilePath: "~/" + configDirName + "/refract.log",
			Console:  true,
		},
		Storage: StorageConfig{
			BasePath:     "~/" + configDirName,
			DatabasePath: "~/" + configDirName + "/refract.db",
		},
	}

	// Validate the expanded form before saving
	expandedCfg := *defaultCfg
	expandConfigPaths(&expandedCfg)
	if err := ValidateConfig(&expandedCfg); err != nil {
		return fmt.Errorf("default configuration validation failed: %w", err)
	}

	if err := Save(defaultCfg); err != nil {
		return fmt.Errorf("failed to save default config: %w", err)
	}

	return nil
}
