package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quantmind-br/repotxt/internal/app"
	"github.com/quantmind-br/repotxt/internal/blob"
	"github.com/quantmind-br/repotxt/internal/cache"
	"github.com/quantmind-br/repotxt/internal/config"
	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/fetcher"
	"github.com/quantmind-br/repotxt/internal/github"
	"github.com/quantmind-br/repotxt/internal/output"
	"github.com/quantmind-br/repotxt/internal/selection"
	"github.com/quantmind-br/repotxt/internal/tui"
	"github.com/quantmind-br/repotxt/internal/utils"
	"github.com/quantmind-br/repotxt/internal/wiki"
	"github.com/quantmind-br/repotxt/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// Dependencies for testing
	openTokenStore = func(cfg *config.Config) (domain.TokenStore, error) {
		return cache.NewTokenStore(cache.Options{Directory: cfg.State.Directory, Logger: verbose})
	}
	runPicker = tui.Pick
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repotxt [url]",
		Short: "Bundle files of a GitHub repository into one prompt",
		Long: `repotxt loads the file tree of a GitHub repository, branch, tag,
sub-directory or wiki, lets you pick files and writes their contents to a
single text file (prompt.txt) or a zip archive (partial_repo.zip).

Accepted URLs:
  https://github.com/owner/repo
  https://github.com/owner/repo/tree/branch/path
  https://github.com/owner/repo.wiki

Wiki URLs need a running wiki service, see "repotxt serve".`,
		Version:       version.Short(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ~/.repotxt/config.yaml)")
	flags.StringP("output", "o", config.DefaultOutputDir, "Output directory")
	flags.IntP("workers", "j", config.DefaultWorkers, "Concurrent file downloads (0=one per file)")
	flags.String("wiki-service", config.DefaultWikiServiceURL, "Wiki service base URL")
	flags.String("api-url", config.DefaultGitHubAPIURL, "GitHub API base URL")
	flags.StringP("token", "t", "", "GitHub access token (remembered between runs; empty clears it)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	_ = viper.BindPFlag("output.directory", flags.Lookup("output"))
	_ = viper.BindPFlag("concurrency.workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("wiki.service_url", flags.Lookup("wiki-service"))
	_ = viper.BindPFlag("github.api_url", flags.Lookup("api-url"))

	local := rootCmd.Flags()
	local.String("hide-ext", "", "Comma separated extensions to hide, e.g. \"png,lock\"")
	local.StringSliceP("select", "s", nil, "Files or directories to export (default all visible files)")
	local.StringP("format", "f", string(domain.FormatText), "Export format: text or zip")
	local.Bool("stdout", false, "Print the text bundle instead of writing prompt.txt")
	local.BoolP("interactive", "i", false, "Pick extensions and files interactively")
	local.Bool("accessible", false, "Use the screen reader friendly picker")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRefsCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newUnpackCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  w,
		Verbose: verbose,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// resolveToken prefers the flag, then the config, then the stored token
func resolveToken(ctx context.Context, cmd *cobra.Command, cfg *config.Config, tokens domain.TokenStore) (string, error) {
	if f := cmd.Flags().Lookup("token"); f != nil && f.Changed {
		return f.Value.String(), nil
	}
	if cfg.GitHub.Token != "" {
		return cfg.GitHub.Token, nil
	}
	return tokens.Load(ctx)
}

// clientFactory builds GitHub clients that also resolve blob:// locators from blobs
func clientFactory(cfg *config.Config, blobs *blob.Store, logger *utils.Logger) app.ClientFactory {
	return func(token string) (app.RepoClient, error) {
		return github.NewClient(github.Options{
			Token:     token,
			BaseURL:   cfg.GitHub.APIURL,
			Timeout:   cfg.Concurrency.Timeout,
			Transport: blobs.Transport(),
			UserAgent: version.UserAgent(),
			Logger:    logger,
		})
	}
}

func newSession(cfg *config.Config, tokens domain.TokenStore, logger *utils.Logger, progress io.Writer) (*app.Session, error) {
	blobs := blob.NewStore("wiki")
	bridge := wiki.NewBridge(wiki.BridgeOptions{
		BaseURL: cfg.Wiki.ServiceURL,
		Timeout: cfg.Concurrency.Timeout,
		Workers: cfg.Concurrency.Workers,
		Blobs:   blobs,
		Logger:  logger,
	})

	var session *app.Session
	opts := app.SessionOptions{
		NewClient: clientFactory(cfg, blobs, logger),
		Wiki:      bridge,
		Blobs:     blobs,
		Tokens:    tokens,
		Writer: output.NewWriter(output.WriterOptions{
			BaseDir:  cfg.Output.Directory,
			TextFile: cfg.Output.TextFile,
			ZipFile:  cfg.Output.ZipFile,
		}),
		Workers: cfg.Concurrency.Workers,
		Retrier: fetcher.NewRetrier(fetcher.RetrierOptions{
			MaxRetries:      cfg.GitHub.MaxRetries,
			InitialInterval: cfg.GitHub.RetryInitial,
			MaxInterval:     cfg.GitHub.RetryMax,
		}),
		Logger: logger,
	}
	if progress != nil {
		opts.Progress = func(total int) fetcher.ProgressFunc {
			desc := utils.DescFetching
			if snap := session.Current(); snap != nil && snap.Source == app.SourceWiki {
				desc = utils.DescWiki
			}
			bar := utils.NewProgressBarTo(progress, total, desc)
			return func(done, _ int) {
				_ = bar.Set(done)
				if done == total {
					_ = bar.Finish()
				}
			}
		}
	}

	session, err := app.NewSession(opts)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	exportFormat := domain.ExportFormat(format)
	if !exportFormat.Valid() {
		return domain.NewValidationError("format", fmt.Sprintf("unsupported format %q", format))
	}
	toStdout, _ := flags.GetBool("stdout")
	if toStdout && exportFormat != domain.FormatText {
		return domain.NewValidationError("stdout", "only the text format can be printed")
	}
	hideExt, _ := flags.GetString("hide-ext")
	if err := tui.ValidateExtensions(hideExt); err != nil {
		return domain.NewValidationError("hide-ext", err.Error())
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	tokens, err := openTokenStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	defer tokens.Close()

	token, err := resolveToken(ctx, cmd, cfg, tokens)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load saved access token")
	}

	var progress io.Writer
	if !verbose {
		progress = cmd.ErrOrStderr()
	}
	session, err := newSession(cfg, tokens, log, progress)
	if err != nil {
		return err
	}

	snap, err := session.Submit(ctx, args[0], token)
	if err != nil {
		return err
	}
	log.Info().
		Str("repo", snap.Ref.String()).
		Str("revision", snap.Revision).
		Str("path", snap.SubPath).
		Int("entries", len(snap.Entries)).
		Msg("Tree loaded")

	filter := session.Filter()
	if hideExt != "" {
		filter.SetHiddenExtensions(hideExt)
	}

	interactive, _ := flags.GetBool("interactive")
	if interactive {
		accessible, _ := flags.GetBool("accessible")
		err = runPicker(filter, tui.PickerOptions{
			Title:      fmt.Sprintf("Select files from %s", snap.Ref.String()),
			Accessible: accessible,
		})
		if err != nil {
			return err
		}
	} else {
		selects, _ := flags.GetStringSlice("select")
		applySelection(filter, selects)
	}

	if toStdout {
		files, err := session.Fetch(ctx)
		if err != nil {
			return err
		}
		data, err := output.Render(domain.FormatText, files)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	path, err := session.Export(ctx, exportFormat)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// applySelection selects each path or directory; no paths or "all" selects
// every visible file
func applySelection(f *selection.Filter, selects []string) {
	if len(selects) == 0 {
		f.SelectAll()
		return
	}
	for _, s := range selects {
		s = strings.TrimSpace(s)
		if s == "all" {
			f.SelectAll()
			return
		}
		f.SelectPrefix(s)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
