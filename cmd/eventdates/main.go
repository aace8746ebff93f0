// Package main implements the eventdates CLI: keyword-window date
// extraction over clinic notes, evaluation against gold dates, and an HTTP
// server for the same pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds global flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

// newRootCmd builds the command tree. Every call returns fresh flags.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "eventdates",
		Short: "Find the date of a clinical event in a patient's notes",
		Long: `eventdates searches each patient's clinic notes for keywords that tend to
appear next to the date of one clinical event (for example a diagnosis),
pulls the nearest date out of a window around every keyword hit, and ranks
the resulting dates per patient.

Configuration is read from ~/.config/eventdates/config.yaml (or --config),
then from EVENTDATES_* environment variables, then from flags.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: ~/.config/eventdates/config.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newExtractCmd(opts),
		newNaiveCmd(opts),
		newEvaluateCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("eventdates %s\ncommit: %s\nbuilt: %s\n", version, gitCommit, buildDate)
		},
	}
}
