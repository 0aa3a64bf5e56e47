package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// GitHub defaults
	DefaultGitHubAPIURL = "https://api.github.com"
	DefaultMaxRetries   = 0
	DefaultRetryInitial = 1 * time.Second
	DefaultRetryMax     = 30 * time.Second

	// Wiki defaults
	DefaultWikiServiceURL = "http://localhost:3000"

	// Server defaults
	DefaultServerPort  = 3000
	DefaultFrontendURL = "http://localhost:5173"

	// Concurrency defaults
	DefaultWorkers = 0
	DefaultTimeout = 30 * time.Second

	// Output defaults
	DefaultOutputDir = "."
	DefaultTextFile  = "prompt.txt"
	DefaultZipFile   = "partial_repo.zip"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".repotxt"
	}
	return filepath.Join(home, ".repotxt")
}

// StateDir returns the directory of the token store
func StateDir() string {
	return filepath.Join(ConfigDir(), "state")
}

// MirrorDir returns the default wiki mirror root
func MirrorDir() string {
	return filepath.Join(ConfigDir(), "repos")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL:       DefaultGitHubAPIURL,
			MaxRetries:   DefaultMaxRetries,
			RetryInitial: DefaultRetryInitial,
			RetryMax:     DefaultRetryMax,
		},
		Wiki: WikiConfig{
			ServiceURL: DefaultWikiServiceURL,
			MirrorDir:  MirrorDir(),
		},
		Server: ServerConfig{
			Port:        DefaultServerPort,
			FrontendURL: DefaultFrontendURL,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
			Timeout: DefaultTimeout,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			TextFile:  DefaultTextFile,
			ZipFile:   DefaultZipFile,
		},
		State: StateConfig{
			Directory: StateDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
