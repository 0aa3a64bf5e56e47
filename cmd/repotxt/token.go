package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the remembered access token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "Remember an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveToken(cmd, strings.TrimSpace(args[0]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the remembered access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveToken(cmd, "")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the remembered access token, masked",
		Args:  cobra.NoArgs,
		RunE:  runTokenShow,
	})

	return cmd
}

func saveToken(cmd *cobra.Command, token string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tokens, err := openTokenStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	defer tokens.Close()

	if err := tokens.Save(cmd.Context(), token); err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Access token cleared")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Access token saved")
	}
	return nil
}

func runTokenShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tokens, err := openTokenStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	defer tokens.Close()

	token, err := tokens.Load(cmd.Context())
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No access token saved")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), maskToken(token))
	return nil
}

// maskToken keeps the last four characters of tokens longer than eight
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
