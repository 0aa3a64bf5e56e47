package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	cfg, err := load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithViper loads configuration into a fresh viper instance and returns it
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := load(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Environment variables (REPOTXT_*)
	v.SetEnvPrefix("REPOTXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_url", DefaultGitHubAPIURL)
	v.SetDefault("github.token", "")
	v.SetDefault("github.max_retries", DefaultMaxRetries)
	v.SetDefault("github.retry_initial", DefaultRetryInitial)
	v.SetDefault("github.retry_max", DefaultRetryMax)

	v.SetDefault("wiki.service_url", DefaultWikiServiceURL)
	v.SetDefault("wiki.mirror_dir", MirrorDir())

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.frontend_url", DefaultFrontendURL)

	v.SetDefault("concurrency.workers", DefaultWorkers)
	v.SetDefault("concurrency.timeout", DefaultTimeout)

	v.SetDefault("output.directory", DefaultOutputDir)
	v.SetDefault("output.text_file", DefaultTextFile)
	v.SetDefault("output.zip_file", DefaultZipFile)

	v.SetDefault("state.directory", StateDir())

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// WriteFile marshals cfg as YAML to path, creating parent directories.
// The token is never written.
func WriteFile(cfg *Config, path string) error {
	out := *cfg
	out.GitHub.Token = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders cfg as YAML with the token redacted
func Marshal(cfg *Config) ([]byte, error) {
	out := *cfg
	if out.GitHub.Token != "" {
		out.GitHub.Token = "********"
	}
	return yaml.Marshal(&out)
}
