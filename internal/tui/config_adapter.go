package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/quantmind-br/repotxt/internal/config"
)

// ConfigValues holds form values that map to the Config struct.
// Numeric and duration fields are stored as strings for form editing.
type ConfigValues struct {
	APIURL       string
	Token        string
	MaxRetries   string
	RetryInitial string
	RetryMax     string

	WikiServiceURL string
	MirrorDir      string

	ServerPort  string
	FrontendURL string

	Workers string
	Timeout string

	OutputDirectory string
	TextFile        string
	ZipFile         string

	StateDirectory string

	LogLevel  string
	LogFormat string
}

// FromConfig converts a Config to ConfigValues for form editing
func FromConfig(cfg *config.Config) *ConfigValues {
	return &ConfigValues{
		APIURL:       cfg.GitHub.APIURL,
		Token:        cfg.GitHub.Token,
		MaxRetries:   strconv.Itoa(cfg.GitHub.MaxRetries),
		RetryInitial: formatDuration(cfg.GitHub.RetryInitial),
		RetryMax:     formatDuration(cfg.GitHub.RetryMax),

		WikiServiceURL: cfg.Wiki.ServiceURL,
		MirrorDir:      cfg.Wiki.MirrorDir,

		ServerPort:  strconv.Itoa(cfg.Server.Port),
		FrontendURL: cfg.Server.FrontendURL,

		Workers: strconv.Itoa(cfg.Concurrency.Workers),
		Timeout: formatDuration(cfg.Concurrency.Timeout),

		OutputDirectory: cfg.Output.Directory,
		TextFile:        cfg.Output.TextFile,
		ZipFile:         cfg.Output.ZipFile,

		StateDirectory: cfg.State.Directory,

		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,
	}
}

// ToConfig converts ConfigValues back to a validated Config
func (v *ConfigValues) ToConfig() (*config.Config, error) {
	maxRetries, err := parseIntOrDefault(v.MaxRetries, config.DefaultMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("invalid max_retries: %w", err)
	}

	retryInitial, err := parseDurationOrDefault(v.RetryInitial, config.DefaultRetryInitial)
	if err != nil {
		return nil, fmt.Errorf("invalid retry_initial: %w", err)
	}

	retryMax, err := parseDurationOrDefault(v.RetryMax, config.DefaultRetryMax)
	if err != nil {
		return nil, fmt.Errorf("invalid retry_max: %w", err)
	}

	port, err := parseIntOrDefault(v.ServerPort, config.DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	workers, err := parseIntOrDefault(v.Workers, config.DefaultWorkers)
	if err != nil {
		return nil, fmt.Errorf("invalid workers: %w", err)
	}

	timeout, err := parseDurationOrDefault(v.Timeout, config.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}

	cfg := &config.Config{
		GitHub: config.GitHubConfig{
			APIURL:       v.APIURL,
			Token:        v.Token,
			MaxRetries:   maxRetries,
			RetryInitial: retryInitial,
			RetryMax:     retryMax,
		},
		Wiki: config.WikiConfig{
			ServiceURL: v.WikiServiceURL,
			MirrorDir:  v.MirrorDir,
		},
		Server: config.ServerConfig{
			Port:        port,
			FrontendURL: v.FrontendURL,
		},
		Concurrency: config.ConcurrencyConfig{
			Workers: workers,
			Timeout: timeout,
		},
		Output: config.OutputConfig{
			Directory: v.OutputDirectory,
			TextFile:  v.TextFile,
			ZipFile:   v.ZipFile,
		},
		State: config.StateConfig{
			Directory: v.StateDirectory,
		},
		Logging: config.LoggingConfig{
			Level:  v.LogLevel,
			Format: v.LogFormat,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func parseDurationOrDefault(s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(s)
}

func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}
