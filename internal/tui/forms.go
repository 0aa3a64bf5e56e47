package tui

import (
	"github.com/charmbracelet/huh"
)

func CreateGitHubForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("api_url").
				Title("API URL").
				Description("GitHub REST API endpoint (GitHub Enterprise: https://host/api/v3)").
				Value(&values.APIURL).
				Placeholder("https://api.github.com").
				Validate(ValidateURL),

			huh.NewInput().
				Key("token").
				Title("Access Token").
				Description("Personal access token for private repositories (optional)").
				Value(&values.Token).
				EchoMode(huh.EchoModePassword),

			huh.NewInput().
				Key("max_retries").
				Title("Max Retries").
				Description("Retries per file on transient failures (0 disables)").
				Value(&values.MaxRetries).
				Placeholder("0").
				Validate(ValidateIntRange(0, 10)),

			huh.NewInput().
				Key("retry_initial").
				Title("Initial Retry Delay").
				Value(&values.RetryInitial).
				Placeholder("1s").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("retry_max").
				Title("Max Retry Delay").
				Value(&values.RetryMax).
				Placeholder("30s").
				Validate(ValidateDuration),
		),
	).WithTheme(GetTheme())
}

func CreateWikiForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("service_url").
				Title("Wiki Service URL").
				Description("Base URL of a running `repotxt serve`").
				Value(&values.WikiServiceURL).
				Placeholder("http://localhost:3000").
				Validate(ValidateURL),

			huh.NewInput().
				Key("mirror_dir").
				Title("Mirror Directory").
				Description("Where the wiki service keeps its clones").
				Value(&values.MirrorDir).
				Placeholder("~/.repotxt/repos"),
		),
	).WithTheme(GetTheme())
}

func CreateServerForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("port").
				Title("Port").
				Value(&values.ServerPort).
				Placeholder("3000").
				Validate(ValidateIntRange(1, 65535)),

			huh.NewInput().
				Key("frontend_url").
				Title("Frontend URL").
				Description("Origin allowed by CORS").
				Value(&values.FrontendURL).
				Placeholder("http://localhost:5173").
				Validate(ValidateURL),
		),
	).WithTheme(GetTheme())
}

func CreateConcurrencyForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("workers").
				Title("Workers").
				Description("Concurrent downloads (0 fetches every file at once)").
				Value(&values.Workers).
				Placeholder("0").
				Validate(ValidateIntRange(0, 256)),

			huh.NewInput().
				Key("timeout").
				Title("Request Timeout").
				Description("HTTP request timeout (e.g., 30s, 1m)").
				Value(&values.Timeout).
				Placeholder("30s").
				Validate(ValidateDuration),
		),
	).WithTheme(GetTheme())
}

func CreateOutputForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("directory").
				Title("Output Directory").
				Description("Where exported artifacts are written").
				Value(&values.OutputDirectory).
				Placeholder("."),

			huh.NewInput().
				Key("text_file").
				Title("Text Bundle Name").
				Value(&values.TextFile).
				Placeholder("prompt.txt").
				Validate(ValidateFileName),

			huh.NewInput().
				Key("zip_file").
				Title("Zip Archive Name").
				Value(&values.ZipFile).
				Placeholder("partial_repo.zip").
				Validate(ValidateFileName),
		),
	).WithTheme(GetTheme())
}

func CreateLoggingForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("level").
				Title("Log Level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&values.LogLevel),

			huh.NewSelect[string]().
				Key("format").
				Title("Log Format").
				Options(
					huh.NewOption("Pretty (human-readable)", "pretty"),
					huh.NewOption("JSON (structured)", "json"),
				).
				Value(&values.LogFormat),
		),
	).WithTheme(GetTheme())
}

// GetFormForCategory returns the form editing a menu category
func GetFormForCategory(category string, values *ConfigValues) *huh.Form {
	switch category {
	case "github":
		return CreateGitHubForm(values)
	case "wiki":
		return CreateWikiForm(values)
	case "server":
		return CreateServerForm(values)
	case "concurrency":
		return CreateConcurrencyForm(values)
	case "output":
		return CreateOutputForm(values)
	case "logging":
		return CreateLoggingForm(values)
	default:
		return nil
	}
}
