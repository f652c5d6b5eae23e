package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// ValidateConfig validates the entire configuration structure.
// Returns an error describing the first invalid setting it finds.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := ValidateDiffConfig(cfg.Diff); err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	if err := ValidateLoggingConfig(cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := ValidateStorageConfig(cfg.Storage); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	return nil
}

// ValidateDiffConfig validates diff-construction settings
func ValidateDiffConfig(cfg DiffConfig) error {
	if cfg.ContextLines < 0 {
		return fmt.Errorf("context_lines cannot be negative: %d", cfg.ContextLines)
	}
	if cfg.RenameThreshold < 1 || cfg.RenameThreshold > 100 {
		return fmt.Errorf("rename_threshold must be between 1 and 100: %d", cfg.RenameThreshold)
	}
	if cfg.CopyThreshold < 1 || cfg.CopyThreshold > 100 {
		return fmt.Errorf("copy_threshold must be between 1 and 100: %d", cfg.CopyThreshold)
	}
	return nil
}

// ValidateLoggingConfig validates logging settings
func ValidateLoggingConfig(cfg LoggingConfig) error {
	if cfg.Level == "" {
		return fmt.Errorf("level cannot be empty")
	}
	if !validLogLevels[strings.ToLower(cfg.Level)] {
		return fmt.Errorf("unknown log level: %q", cfg.Level)
	}
	return nil
}

// ValidateStorageConfig validates storage paths. Paths must be absolute
// (or ~-prefixed, which the loader expands before validation runs).
func ValidateStorageConfig(cfg StorageConfig) error {
	if cfg.BasePath == "" {
		return fmt.Errorf("base_path cannot be empty")
	}
	if !filepath.IsAbs(cfg.BasePath) && !strings.HasPrefix(cfg.BasePath, "~") {
		return fmt.Errorf("base_path must be absolute: %s", cfg.BasePath)
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("database_path cannot be empty")
	}
	if !filepath.IsAbs(cfg.DatabasePath) && !strings.HasPrefix(cfg.DatabasePath, "~") {
		return fmt.Errorf("database_path must be absolute: %s", cfg.DatabasePath)
	}
	return nil
}
