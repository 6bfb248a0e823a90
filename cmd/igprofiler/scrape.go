package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"igprofiler/pkg/config"
	"igprofiler/pkg/export"
	"igprofiler/pkg/input"
	"igprofiler/pkg/logger"
	"igprofiler/pkg/scraper"
	"igprofiler/pkg/telemetry"
	"igprofiler/pkg/ui"
)

var (
	// Scrape command flags
	inputFile   string
	maxPosts    int
	concurrent  int
	timeout     float64
	userAgent   string
	jsonOutput  string
	csvOutput   string
	xlsxOutput  string
	metricsAddr string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [usernames...]",
	Short: "Fetch profiles and export their statistics",
	Long: `Fetch each profile page once, extract the embedded profile data and
compute engagement statistics.

Usernames given as arguments take precedence over the input file. The input
file holds one username per line; blank lines and lines starting with '#' are
ignored. Profiles that cannot be fetched are reported and left out of the
export. Profiles whose page carries no embedded data are exported with the
username only.`,
	Example: `  # Scrape the usernames listed in data/input_usernames.txt
  igprofiler scrape

  # Scrape two accounts and write a spreadsheet too
  igprofiler scrape natgeo nasa --xlsx data/results.xlsx

  # Use a different list, 8 workers and expose Prometheus metrics
  igprofiler scrape --input users.txt --concurrent 8 --metrics-addr :9102`,
	Args: cobra.ArbitraryArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	addScrapeFlags(scrapeCmd)
}

func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "usernames file, one per line")
	cmd.Flags().IntVar(&maxPosts, "max-posts", 0, "maximum recent posts kept per profile (default 12)")
	cmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent requests (default 4)")
	cmd.Flags().Float64Var(&timeout, "timeout", 0, "request timeout in seconds (default 10)")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header sent with each request")
	cmd.Flags().StringVar(&jsonOutput, "json", "", "JSON output path")
	cmd.Flags().StringVar(&csvOutput, "csv", "", "CSV output path")
	cmd.Flags().StringVar(&xlsxOutput, "xlsx", "", "XLSX output path")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9102")
}

// commandLineFlags collects the flags explicitly set on cmd for config.Load
func commandLineFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("input") {
		flags["input"] = inputFile
	}
	if changed("max-posts") {
		flags["max-posts"] = maxPosts
	}
	if changed("concurrent") {
		flags["concurrent"] = concurrent
	}
	if changed("timeout") {
		flags["timeout"] = timeout
	}
	if changed("user-agent") {
		flags["user-agent"] = userAgent
	}
	if changed("json") {
		flags["json"] = jsonOutput
	}
	if changed("csv") {
		flags["csv"] = csvOutput
	}
	if changed("xlsx") {
		flags["xlsx"] = xlsxOutput
	}
	if changed("metrics-addr") {
		flags["metrics-addr"] = metricsAddr
	}
	if changed("log-level") {
		flags["log-level"] = logLevel
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, closeLog, err := logger.New(&cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()

	log.WithField("version", version).Debug("igprofiler starting")

	var usernames []string
	if len(args) > 0 {
		usernames, err = input.FromArgs(args, log)
	} else {
		ui.PrintInfo("Input", cfg.Input)
		usernames, err = input.LoadUsernames(cfg.Input, log)
	}
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	metrics := telemetry.New()
	if cfg.Metrics.ListenAddress != "" {
		stopMetrics := serveMetrics(cfg.Metrics.ListenAddress, metrics, log)
		defer stopMetrics()
	}

	ui.PrintInfo("Profiles", fmt.Sprintf("%d", len(usernames)))
	ui.PrintInfo("Workers", fmt.Sprintf("%d", cfg.ConcurrentRequests))
	ui.PrintHighlight("\n[INITIATING PROFILE SCAN]")

	tracker := ui.NewStatusTracker(len(usernames), !quiet)
	s := scraper.New(cfg, log, metrics)
	s.SetTracker(tracker)

	profiles := s.FetchAll(ctx, usernames)

	tracker.PrintSummary()
	if notifications {
		ui.NewNotifier().NotifyRunComplete(tracker)
	}

	if ctx.Err() != nil {
		ui.PrintWarning("Interrupted, exporting profiles collected so far")
		log.Warn("Run interrupted")
	}

	if len(profiles) == 0 {
		log.Warn("No profile was scraped, nothing exported")
		ui.PrintWarning("No profile was scraped, nothing exported")
		return nil
	}

	exportErr := export.All(profiles, cfg.Output, log)
	for _, out := range []struct{ label, path string }{
		{"JSON", cfg.Output.JSON},
		{"CSV", cfg.Output.CSV},
		{"XLSX", cfg.Output.XLSX},
	} {
		if out.path != "" {
			ui.PrintInfo(out.label, out.path)
		}
	}
	if exportErr != nil {
		return fmt.Errorf("export incomplete: %w", exportErr)
	}

	ui.PrintSuccess("\n[PROFILE SCAN COMPLETED]")
	return nil
}

// serveMetrics exposes the collector on addr until the returned function is called
func serveMetrics(addr string, metrics *telemetry.Collector, log logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("address", addr).Info("Serving Prometheus metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
