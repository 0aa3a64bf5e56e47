package main

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/repotxt/internal/blob"
	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/repourl"
	"github.com/quantmind-br/repotxt/internal/tui"
	"github.com/spf13/cobra"
)

func newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs <url>",
		Short: "List branches and tags of a repository",
		Args:  cobra.ExactArgs(1),
		RunE:  runRefs,
	}
}

func runRefs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	parsed, err := repourl.Parse(args[0])
	if err != nil {
		return err
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

	client, err := clientFactory(cfg, blob.NewStore("wiki"), log)(token)
	if err != nil {
		return err
	}
	refs, err := client.ListReferences(ctx, parsed.RepoRef)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Branches:")
	for _, b := range repourl.PrioritizeBranches(refs.Branches) {
		fmt.Fprintf(out, "  %s\n", b)
	}
	fmt.Fprintln(out, "Tags:")
	for _, t := range refs.Tags {
		fmt.Fprintf(out, "  %s\n", t)
	}
	return nil
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <url>",
		Short: "Print the files a URL resolves to",
		Args:  cobra.ExactArgs(1),
		RunE:  runTree,
	}
	cmd.Flags().String("hide-ext", "", "Comma separated extensions to hide")
	cmd.Flags().Bool("extensions", false, "Print the extensions of the tree instead of its files")
	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	hideExt, _ := cmd.Flags().GetString("hide-ext")
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

	session, err := newSession(cfg, tokens, log, nil)
	if err != nil {
		return err
	}
	if _, err := session.Submit(ctx, args[0], token); err != nil {
		return err
	}

	filter := session.Filter()
	out := cmd.OutOrStdout()

	if ext, _ := cmd.Flags().GetBool("extensions"); ext {
		fmt.Fprintln(out, strings.Join(filter.Extensions(), "\n"))
		return nil
	}

	if hideExt != "" {
		filter.SetHiddenExtensions(hideExt)
	}
	for _, e := range filter.VisibleSet() {
		fmt.Fprintln(out, e.Path)
	}
	return nil
}
