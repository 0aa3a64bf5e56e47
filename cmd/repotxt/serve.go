package main

import (
	"github.com/quantmind-br/repotxt/internal/server"
	"github.com/quantmind-br/repotxt/internal/wiki"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the wiki service",
		Long: `Runs the HTTP service that mirrors GitHub wikis into local git
clones and serves their Markdown pages. Wiki URLs passed to repotxt are
fetched through this service.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Listen port (default from config, 3000)")
	cmd.Flags().String("frontend-url", "", "Origin allowed by CORS")
	cmd.Flags().String("mirror-dir", "", "Directory holding the wiki clones")

	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.frontend_url", cmd.Flags().Lookup("frontend-url"))
	_ = viper.BindPFlag("wiki.mirror_dir", cmd.Flags().Lookup("mirror-dir"))

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	ctx, cancel := signalContext(cmd)
	defer cancel()

	mirror := wiki.NewMirrorStore(wiki.MirrorOptions{
		Root:   cfg.Wiki.MirrorDir,
		Logger: log,
	})

	srv := server.New(server.Options{
		Port:        cfg.Server.Port,
		FrontendURL: cfg.Server.FrontendURL,
		Mirror:      mirror,
		Logger:      log,
	})

	log.Debug().
		Str("mirrors", mirror.Root()).
		Str("frontend", cfg.Server.FrontendURL).
		Msg("Serving wiki mirrors")

	return srv.Run(ctx)
}
