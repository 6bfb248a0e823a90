package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"igprofiler/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	quiet         bool
	notifications bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igprofiler [usernames...]",
	Short: "Collect public Instagram profile statistics",
	Long: `igprofiler fetches public Instagram profile pages, extracts the embedded
profile data and computes engagement statistics for each account.

Features:
  - Follower, following and recent post counters
  - Average likes, comments and video views
  - Engagement rate over the most recent posts
  - Concurrent fetching with a bounded worker pool
  - JSON, CSV and XLSX export
  - Optional Prometheus metrics endpoint`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetQuiet(quiet)

		// Don't show logo for certain commands
		if !isConfigCommand(cmd) && cmd.Name() != "help" {
			ui.PrintLogo()
		}
	},
	// A bare list of usernames behaves like the scrape command
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runScrape(cmd, args)
	},
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		ui.SetQuiet(false)
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./igprofiler.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress terminal output except errors")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notify", false, "send a desktop notification when the run completes")

	addScrapeFlags(rootCmd)

	rootCmd.SetVersionTemplate(`igprofiler {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
