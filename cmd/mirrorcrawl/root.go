package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/mirrorcrawl/internal/log"
)

// NewRootCmd creates the root command for mirrorcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirrorcrawl",
		Short: "Mirror every page of a website to local storage",
		Long: `mirrorcrawl mirrors a single website to local storage.

Starting from a seed URL, it fetches pages concurrently, follows links that
stay on the same host, and writes each page's raw body to
<output>/<url path>/index.html until no unseen page remains.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the redacting logger selected by the persistent flags.
// Logs go to stderr so they never mix with the crawl's stdout lines.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose = false
	}
	jsonLog, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLog = false
	}

	if jsonLog {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}
