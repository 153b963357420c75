package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"dayahead-prices/internal/analysis"
	"dayahead-prices/internal/config"
	"dayahead-prices/internal/entsoe"
	"dayahead-prices/internal/logging"
	"dayahead-prices/internal/prices"
)

// The job runs shortly after the day-ahead auction results appear and tries
// tomorrow first: at publication time the newest day is the next one.
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	runNow := flag.Bool("now", false, "Run one fetch immediately on startup")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	zone := cfg.ResolveZone()

	client := entsoe.NewClient(cfg.ENTSOE.Token, cfg.ENTSOE.BaseURL, cfg.ENTSOE.Domain)
	client.Client.Timeout = cfg.ENTSOE.HTTPTimeout()

	svc, err := prices.New(client, zone)
	if err != nil {
		log.Fatalf("Failed to build price service: %v", err)
	}

	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		from := svc.Today().AddDate(0, 0, 1)
		series, err := svc.LatestAvailable(ctx, from, cfg.Fetch.FallbackDays)
		if err != nil {
			log.Errorf("[Scheduler] Fetch failed: %v", err)
			return
		}

		report := svc.BuildReport(series)
		log.Infof("[Scheduler] Built %s: %d prices, avg %.2f EUR/MWh",
			report.Date, len(report.Points), report.Statistics.AverageEURMWh)

		if cfg.Output.LatestPath != "" {
			if err := analysis.WriteReportJSON(report, cfg.Output.LatestPath); err != nil {
				log.Errorf("[Scheduler] Failed to write %s: %v", cfg.Output.LatestPath, err)
				return
			}
			log.Infof("[Scheduler] Wrote %s", cfg.Output.LatestPath)
		}
	}

	// Evaluate the cron expression in the market timezone so the job tracks
	// its DST shifts.
	c := cron.New(cron.WithLocation(svc.Location()))
	if _, err := c.AddFunc(cfg.Schedule.Spec, job); err != nil {
		log.Fatalf("Invalid schedule spec %q: %v", cfg.Schedule.Spec, err)
	}

	if *runNow {
		job()
	}

	c.Start()
	log.Infof("Scheduler running: spec %q in %s (zone %s)", cfg.Schedule.Spec, zone.Timezone, zone.Short)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down, waiting for running job")
	<-c.Stop().Done()
}
