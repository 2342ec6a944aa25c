package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"adscout/internal/collect"
	"adscout/internal/config"
)

var (
	cfgFile    string
	verbose    bool
	outputDir  string
	stateDir   string
	maxPerRun  int
	noNotify   bool
	webhookURL string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adscout",
		Short: "adscout — ad fraud and scam advertising intelligence collector",
		Long: `adscout searches industry news for ad fraud, scam advertising, and
political advertising coverage, scores each article's relevance, and
produces a daily HTML report plus a webhook summary.

Commands:
  collect    run one collection pass
  schedule   run collections on a cron schedule
  report     re-render the HTML report for a collected day
  publish    update the static report site
  reset      clear the seen-URL store and any stale run lock`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// collectCmd creates the "collect" subcommand.
func collectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection pass",
		Long:  "Search the configured providers, score new articles, and write the report.",
		RunE:  runCollect,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for reports and archives")
	cmd.Flags().StringVar(&stateDir, "state", "", "state directory for the seen-URL store")
	cmd.Flags().IntVarP(&maxPerRun, "max", "m", 0, "maximum articles to keep this run (0 = config default)")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "skip the webhook notification")
	cmd.Flags().StringVar(&webhookURL, "webhook", "", "override the webhook URL")

	return cmd
}

// runCollect executes the collect command.
func runCollect(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := collect.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create collector: %w", err)
	}
	defer collector.Close()

	start := time.Now()
	summary, err := collector.Run(ctx)
	if err != nil {
		return fmt.Errorf("collection run: %w", err)
	}

	fmt.Printf("\n✅ Collection complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("   Found:      %d hits (%d duplicates)\n", summary.TotalFound, summary.DuplicateCount)
	fmt.Printf("   Collected:  %d new articles\n", summary.NewCount)
	fmt.Printf("   Relevance:  %d high, %d medium, %d low\n",
		summary.HighCount, summary.MediumCount, summary.LowCount)
	if summary.ErrorCount > 0 {
		fmt.Printf("   Errors:     %d (see log)\n", summary.ErrorCount)
	}
	fmt.Printf("   Output:     %s\n", cfg.Collector.OutputDir)

	return nil
}

// loadConfig loads and validates configuration with CLI overrides applied.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, setupLogger(cfg), nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if outputDir != "" {
		cfg.Collector.OutputDir = outputDir
	}
	if stateDir != "" {
		cfg.Collector.StateDir = stateDir
	}
	if maxPerRun > 0 {
		cfg.Collector.MaxArticlesPerRun = maxPerRun
	}
	if webhookURL != "" {
		cfg.Notify.WebhookURL = webhookURL
	}
	if noNotify {
		cfg.Notify.WebhookURL = ""
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stderr
	if cfg.Logging.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("adscout %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyCLIOverrides(cfg)

			fmt.Printf("Collector:\n")
			fmt.Printf("  Max Articles/Run:  %d\n", cfg.Collector.MaxArticlesPerRun)
			fmt.Printf("  Concurrency:       %d\n", cfg.Collector.Concurrency)
			fmt.Printf("  Dedup Enabled:     %v\n", cfg.Collector.DedupEnabled)
			fmt.Printf("  Output Dir:        %s\n", cfg.Collector.OutputDir)
			fmt.Printf("  State Dir:         %s\n", cfg.Collector.StateDir)
			fmt.Printf("\nSearch:\n")
			fmt.Printf("  Queries:           %d\n", len(cfg.Search.Queries))
			fmt.Printf("  Target Sites:      %d\n", len(cfg.Search.TargetSites))
			fmt.Printf("  Request Delay:     %s\n", cfg.Search.RequestDelay)
			fmt.Printf("\nRelevance:\n")
			fmt.Printf("  Keywords:          %d configured\n", len(cfg.Relevance.Keywords))
			fmt.Printf("  Thresholds:        high >= %d, medium >= %d\n",
				cfg.Relevance.HighThreshold, cfg.Relevance.MediumThreshold)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Backend:           %s\n", cfg.Storage.Backend)
			fmt.Printf("\nNotify:\n")
			fmt.Printf("  Webhook:           %v\n", cfg.Notify.WebhookURL != "")
			fmt.Printf("\nSchedule:\n")
			fmt.Printf("  Cron:              %s\n", cfg.Schedule.Cron)
			fmt.Printf("  Metrics:           %v (port %d)\n",
				cfg.Schedule.MetricsEnabled, cfg.Schedule.MetricsPort)
			return nil
		},
	}
}
