package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/repotxt/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.GitHub.Token = "ghp_x"
	cfg.GitHub.MaxRetries = 3
	cfg.Concurrency.Workers = 8
	cfg.Concurrency.Timeout = time.Minute

	values := FromConfig(cfg)

	assert.Equal(t, "https://api.github.com", values.APIURL)
	assert.Equal(t, "ghp_x", values.Token)
	assert.Equal(t, "3", values.MaxRetries)
	assert.Equal(t, "1s", values.RetryInitial)
	assert.Equal(t, "8", values.Workers)
	assert.Equal(t, "1m0s", values.Timeout)
	assert.Equal(t, "3000", values.ServerPort)
	assert.Equal(t, "prompt.txt", values.TextFile)
	assert.Equal(t, "partial_repo.zip", values.ZipFile)
}

func TestToConfig_RoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Wiki.ServiceURL = "http://wiki.internal:8080"
	cfg.Server.Port = 4000
	cfg.Output.Directory = "/tmp/out"
	cfg.Logging.Level = "debug"
	require.NoError(t, cfg.Validate())

	got, err := FromConfig(cfg).ToConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestToConfig_EmptyUsesDefaults(t *testing.T) {
	got, err := (&ConfigValues{}).ToConfig()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultGitHubAPIURL, got.GitHub.APIURL)
	assert.Equal(t, config.DefaultServerPort, got.Server.Port)
	assert.Equal(t, config.DefaultTimeout, got.Concurrency.Timeout)
	assert.Equal(t, config.DefaultTextFile, got.Output.TextFile)
}

func TestToConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values ConfigValues
	}{
		{"workers", ConfigValues{Workers: "many"}},
		{"timeout", ConfigValues{Timeout: "soon"}},
		{"port", ConfigValues{ServerPort: "http"}},
		{"max retries", ConfigValues{MaxRetries: "-1"}},
		{"api url", ConfigValues{APIURL: "ftp://x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.values.ToConfig()
			assert.Error(t, err)
		})
	}
}
