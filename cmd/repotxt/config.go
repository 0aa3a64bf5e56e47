package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/repotxt/internal/config"
	"github.com/quantmind-br/repotxt/internal/tui"
	"github.com/spf13/cobra"
)

// runEditor is swapped in tests
var runEditor = tui.Run

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration interactively",
		Args:  cobra.NoArgs,
		RunE:  runConfigEdit,
	}
	editCmd.Flags().Bool("accessible", false, "Use accessible forms")

	cmd.AddCommand(initCmd, editCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), configPath())
		},
	})

	return cmd
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigFilePath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteFile(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	accessible, _ := cmd.Flags().GetBool("accessible")
	path := configPath()

	return runEditor(tui.Options{
		Config:     cfg,
		Accessible: accessible,
		SaveFunc: func(edited *config.Config) error {
			// The file never holds the token; a token typed in the editor goes to the store.
			if edited.GitHub.Token != "" {
				if err := storeToken(cmd.Context(), edited); err != nil {
					return err
				}
			}
			return config.WriteFile(edited, path)
		},
	})
}

func storeToken(ctx context.Context, cfg *config.Config) error {
	tokens, err := openTokenStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	defer tokens.Close()
	return tokens.Save(ctx, cfg.GitHub.Token)
}
