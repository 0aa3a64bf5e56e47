package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/quantmind-br/repotxt/internal/domain"
)

// Config represents the application configuration
type Config struct {
	GitHub      GitHubConfig      `mapstructure:"github" yaml:"github"`
	Wiki        WikiConfig        `mapstructure:"wiki" yaml:"wiki"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	State       StateConfig       `mapstructure:"state" yaml:"state"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// GitHubConfig contains hosting API settings
type GitHubConfig struct {
	APIURL       string        `mapstructure:"api_url" yaml:"api_url"`
	Token        string        `mapstructure:"token" yaml:"token"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryInitial time.Duration `mapstructure:"retry_initial" yaml:"retry_initial"`
	RetryMax     time.Duration `mapstructure:"retry_max" yaml:"retry_max"`
}

// WikiConfig contains wiki bridge settings.
// ServiceURL is used by the client, MirrorDir by `repotxt serve`.
type WikiConfig struct {
	ServiceURL string `mapstructure:"service_url" yaml:"service_url"`
	MirrorDir  string `mapstructure:"mirror_dir" yaml:"mirror_dir"`
}

// ServerConfig contains wiki service settings
type ServerConfig struct {
	Port        int    `mapstructure:"port" yaml:"port"`
	FrontendURL string `mapstructure:"frontend_url" yaml:"frontend_url"`
}

// ConcurrencyConfig contains concurrency settings.
// Workers <= 0 means one goroutine per file.
type ConcurrencyConfig struct {
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	TextFile  string `mapstructure:"text_file" yaml:"text_file"`
	ZipFile   string `mapstructure:"zip_file" yaml:"zip_file"`
}

// StateConfig locates the persisted token store
type StateConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and fills in defaults for empty values
func (c *Config) Validate() error {
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = DefaultGitHubAPIURL
	}
	if err := validateURL("github.api_url", c.GitHub.APIURL); err != nil {
		return err
	}
	if c.GitHub.MaxRetries < 0 {
		return domain.NewValidationError("github.max_retries", "must not be negative")
	}
	if c.GitHub.RetryInitial <= 0 {
		c.GitHub.RetryInitial = DefaultRetryInitial
	}
	if c.GitHub.RetryMax < c.GitHub.RetryInitial {
		c.GitHub.RetryMax = DefaultRetryMax
	}

	if c.Wiki.ServiceURL == "" {
		c.Wiki.ServiceURL = DefaultWikiServiceURL
	}
	c.Wiki.ServiceURL = strings.TrimSuffix(c.Wiki.ServiceURL, "/")
	if err := validateURL("wiki.service_url", c.Wiki.ServiceURL); err != nil {
		return err
	}
	if c.Wiki.MirrorDir == "" {
		c.Wiki.MirrorDir = MirrorDir()
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = DefaultFrontendURL
	}

	if c.Concurrency.Workers < 0 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Concurrency.Timeout < time.Second {
		c.Concurrency.Timeout = DefaultTimeout
	}

	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Output.TextFile == "" {
		c.Output.TextFile = DefaultTextFile
	}
	if c.Output.ZipFile == "" {
		c.Output.ZipFile = DefaultZipFile
	}

	if c.State.Directory == "" {
		c.State.Directory = StateDir()
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.NewValidationError(field, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.NewValidationError(field, fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return domain.NewValidationError(field, "missing host")
	}
	return nil
}
