package config

// Config represents the root configuration structure for refract
type Config struct {
	Diff    DiffConfig    `mapstructure:"diff" yaml:"diff"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
}

// DiffConfig contains diff-construction configuration
type DiffConfig struct {
	ContextLines    int  `mapstructure:"context_lines" yaml:"context_lines"`
	DetectRenames   bool `mapstructure:"detect_renames" yaml:"detect_renames"`
	RenameThreshold int  `mapstructure:"rename_threshold" yaml:"rename_threshold"`
	DetectCopies    bool `mapstructure:"detect_copies" yaml:"detect_copies"`
	CopyThreshold   int  `mapstructure:"copy_threshold" yaml:"copy_threshold"`
}

// LoggingConfig contains logging output configuration
type LoggingConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	FilePath string `mapstructure:"file_path" yaml:"file_path"`
	Console  bool   `mapstructure:"console" yaml:"console"`
}

// StorageConfig contains storage-related configuration
type StorageConfig struct {
	BasePath     string `mapstructure:"base_path" yaml:"base_path"`
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
}
