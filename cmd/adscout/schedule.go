package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"adscout/internal/collect"
	"adscout/internal/dedup"
	"adscout/internal/observability"
	"adscout/internal/publish"
	"adscout/internal/report"
	"adscout/internal/types"
)

var (
	reportDate string
	docsDir    string
)

// scheduleCmd creates the "schedule" subcommand.
func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run collections on a cron schedule",
		Long:  "Run the collector as a daemon, triggering a collection pass on the configured cron expression.",
		RunE:  runSchedule,
	}
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(logger)
	if cfg.Schedule.MetricsEnabled {
		metrics.StartServer(cfg.Schedule.MetricsPort)
	}

	runOnce := func() {
		// A fresh collector per tick reloads the seen-URL store from disk.
		collector, err := collect.New(cfg, logger)
		if err != nil {
			metrics.RunsFailed.Add(1)
			logger.Error("create collector", "error", err)
			return
		}
		defer collector.Close()

		summary, err := collector.Run(ctx)
		if err != nil {
			if errors.Is(err, types.ErrRunInProgress) {
				metrics.RunsSkipped.Add(1)
				logger.Warn("previous run still in progress, skipping tick")
				return
			}
			metrics.RunsFailed.Add(1)
			logger.Error("scheduled run failed", "error", err)
			return
		}
		metrics.RecordRun(summary.TotalFound, summary.NewCount,
			summary.DuplicateCount, summary.ErrorCount)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule.Cron, runOnce); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cfg.Schedule.Cron, err)
	}

	logger.Info("scheduler starting", "cron", cfg.Schedule.Cron)
	c.Start()

	<-ctx.Done()
	logger.Info("shutting down scheduler")
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("timed out waiting for running job")
	}
	return nil
}

// reportCmd creates the "report" subcommand, which re-renders the HTML
// report from a day's archived articles.
func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render the HTML report for a collected day",
		RunE:  runReport,
	}
	cmd.Flags().StringVar(&reportDate, "date", "", "day to render (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for reports and archives")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	date := time.Now()
	if reportDate != "" {
		date, err = time.Parse("2006-01-02", reportDate)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", reportDate, err)
		}
	}

	path := filepath.Join(cfg.Collector.OutputDir, "articles_"+date.Format("2006-01-02")+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no archived articles for %s: %w", date.Format("2006-01-02"), err)
	}

	var export struct {
		Articles []types.Article `json:"articles"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("read archive %s: %w", path, err)
	}

	renderer := report.NewRenderer(cfg.Collector.OutputDir, cfg.Relevance.Thresholds(), logger)
	out, err := renderer.Render(export.Articles, date)
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s (%d articles)\n", out, len(export.Articles))
	return nil
}

// publishCmd creates the "publish" subcommand.
func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Update the static report site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			publisher := publish.New(cfg.Collector.OutputDir, docsDir, logger)
			copied, err := publisher.Publish()
			if err != nil {
				return err
			}
			fmt.Printf("Published %d new report(s) to %s\n", copied, docsDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&docsDir, "docs", "./docs", "static site directory")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory holding the reports")
	return cmd
}

// resetCmd creates the "reset" subcommand.
func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the seen-URL store and any stale run lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := dedup.Open(cfg.Collector.StateDir, logger)
			if err != nil && !errors.Is(err, types.ErrStoreCorrupt) {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear store: %w", err)
			}
			if err := collect.ClearLock(cfg.Collector.StateDir); err != nil {
				return fmt.Errorf("clear lock: %w", err)
			}
			fmt.Println("Seen-URL store and run lock cleared")
			return nil
		},
	}
	cmd.Flags().StringVar(&stateDir, "state", "", "state directory for the seen-URL store")
	return cmd
}
