package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"dayahead-prices/internal/analysis"
	"dayahead-prices/internal/config"
	"dayahead-prices/internal/entsoe"
	"dayahead-prices/internal/model"
	"dayahead-prices/internal/pipeline"
	"dayahead-prices/internal/prices"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Load environment variables
	_ = godotenv.Load()

	switch os.Args[1] {
	case "fetch":
		cmdFetch(os.Args[2:])
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "plan":
		cmdPlan(os.Args[2:])
	case "zones":
		cmdZones(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli fetch   [--config config.yaml] [--date latest|today|tomorrow|YYYY-MM-DD] [--fallback N] [--json] [--out results/day.json]")
	fmt.Println("  cli analyze --file sample_day.xml --date YYYY-MM-DD [--config config.yaml] [--json]")
	fmt.Println("  cli plan    --duration 3 [--not-before HH:MM] [--finish-by HH:MM] [--date latest|today|tomorrow|YYYY-MM-DD]")
	fmt.Println("  cli zones")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - fetch needs ENTSOE_TOKEN (flag-free; environment or .env)")
	fmt.Println("  - analyze works offline on a saved Publication_MarketDocument XML")
	fmt.Println("  - prices are day-ahead auction results, one value per local hour")
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	dateStr := fs.String("date", "latest", "Local day, 'today', 'tomorrow', or 'latest' for the newest publishable one")
	fallback := fs.Int("fallback", -1, "Days to walk back when --date latest (-1 uses the config value)")
	jsonOut := fs.Bool("json", false, "Print the report as JSON instead of a table")
	outPath := fs.String("out", "", "Optional path to write the report JSON")
	_ = fs.Parse(args)

	cfg, svc := buildService(*cfgPath)
	if *fallback >= 0 {
		cfg.Fetch.FallbackDays = *fallback
	}
	series := fetchSeries(svc, cfg, *dateStr)

	report := svc.BuildReport(series)
	if *outPath != "" {
		if err := analysis.WriteReportJSON(report, *outPath); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote report to %s\n", *outPath)
	}
	if *jsonOut {
		printJSON(report)
		return
	}
	printReport(report)
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	filePath := fs.String("file", "sample_day.xml", "Path to a saved publication XML")
	dateStr := fs.String("date", "", "Local day to build (YYYY-MM-DD)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	jsonOut := fs.Bool("json", false, "Print the report as JSON instead of a table")
	outPath := fs.String("out", "", "Optional path to write the report JSON")
	_ = fs.Parse(args)

	if *dateStr == "" {
		fmt.Println("--date is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	zone := cfg.ResolveZone()
	loc, err := time.LoadLocation(zone.Timezone)
	if err != nil {
		panic(err)
	}

	doc, err := entsoe.LoadDocumentXML(*filePath)
	if err != nil {
		panic(err)
	}
	date, err := model.ParseLocalDate(*dateStr, loc)
	if err != nil {
		panic(err)
	}

	res, err := pipeline.New(loc).Run(doc, date)
	if err != nil {
		panic(err)
	}

	report := analysis.BuildReport(res.Series, zone.Code)
	if *outPath != "" {
		if err := analysis.WriteReportJSON(report, *outPath); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote report to %s\n", *outPath)
	}
	if *jsonOut {
		printJSON(report)
		return
	}
	printReport(report)
}

func cmdPlan(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	dateStr := fs.String("date", "latest", "Local day, 'today', 'tomorrow', or 'latest'")
	duration := fs.Int("duration", 0, "Run length in whole hours")
	notBefore := fs.String("not-before", "", "Earliest local start (HH:MM)")
	finishBy := fs.String("finish-by", "", "Latest local finish (HH:MM)")
	_ = fs.Parse(args)

	if *duration < 1 {
		fmt.Println("--duration is required and must be at least 1")
		os.Exit(2)
	}

	cfg, svc := buildService(*cfgPath)
	series := fetchSeries(svc, cfg, *dateStr)

	block, err := analysis.PlanRun(series, analysis.PlanRequest{
		DurationHours: *duration,
		NotBefore:     *notBefore,
		FinishBy:      *finishBy,
	})
	if err != nil {
		panic(err)
	}
	if block == nil {
		fmt.Printf("No %dh window fits the bounds on %s\n", *duration, series.DateString())
		os.Exit(1)
	}

	fmt.Printf("Cheapest %dh run on %s:\n", block.Hours, series.DateString())
	fmt.Printf("  start %02d:00 local (%s)\n", block.StartHour, block.StartUTC.Format(time.RFC3339))
	fmt.Printf("  average %.2f EUR/MWh (%.2f ct/kWh)\n", block.AverageEURPerMWh, block.AverageEURPerMWh/10)
	for i, p := range block.Prices {
		fmt.Printf("  hour %02d:00  %8.2f EUR/MWh\n", (block.StartHour+i)%24, p)
	}
}

func cmdZones(args []string) {
	fs := flag.NewFlagSet("zones", flag.ExitOnError)
	_ = fs.Parse(args)

	fmt.Printf("%-6s %-18s %-20s %s\n", "short", "code", "timezone", "name")
	for _, z := range entsoe.Zones() {
		fmt.Printf("%-6s %-18s %-20s %s\n", z.Short, z.Code, z.Timezone, z.Name)
	}
}

func buildService(cfgPath string) (*config.Config, *prices.Service) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	client := entsoe.NewClient(cfg.ENTSOE.Token, cfg.ENTSOE.BaseURL, cfg.ENTSOE.Domain)
	client.Client.Timeout = cfg.ENTSOE.HTTPTimeout()

	svc, err := prices.New(client, cfg.ResolveZone())
	if err != nil {
		panic(err)
	}
	return cfg, svc
}

func fetchSeries(svc *prices.Service, cfg *config.Config, dateStr string) *model.DailyPriceSeries {
	ctx := context.Background()

	if dateStr == "latest" {
		series, err := svc.LatestAvailable(ctx, svc.Today(), cfg.Fetch.FallbackDays)
		if err != nil {
			panic(err)
		}
		return series
	}

	date, err := svc.ResolveDate(dateStr)
	if err != nil {
		panic(err)
	}
	series, err := svc.Day(ctx, date)
	if err != nil {
		panic(err)
	}
	return series
}

func printJSON(report *analysis.Report) {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(raw))
}

func printReport(report *analysis.Report) {
	fmt.Printf("Day-ahead prices for %s (zone %s)\n", report.Date, report.Zone)
	if report.Degraded {
		fmt.Println("WARNING: no strictly qualifying series; prices come from a fallback series")
	}
	fmt.Println("")

	fmt.Printf("%-5s %-22s %10s %8s\n", "hour", "start (UTC)", "EUR/MWh", "ct/kWh")
	for _, p := range report.Points {
		note := ""
		if p.LowConfidence {
			note = "  (low confidence)"
		}
		fmt.Printf("%02d:00 %-22s %10.2f %8.2f%s\n", p.Hour, p.TimestampUTC, p.PriceEURMWh, p.PriceCentKWh, note)
	}

	s := report.Statistics
	fmt.Println("")
	fmt.Printf("avg %.2f EUR/MWh   min %.2f @ %02d:00   max %.2f @ %02d:00   spread %.2f\n",
		s.AverageEURMWh, s.MinEURMWh, s.MinHour, s.MaxEURMWh, s.MaxHour, s.PriceSpread)

	fmt.Println("")
	fmt.Println("cheapest blocks:")
	printBlock(1, report.CheapestBlocks.OneHour)
	printBlock(2, report.CheapestBlocks.TwoHours)
	printBlock(3, report.CheapestBlocks.ThreeHours)
	printBlock(4, report.CheapestBlocks.FourHours)
}

func printBlock(hours int, b *analysis.ReportBlock) {
	if b == nil {
		fmt.Printf("  %dh: not enough hours\n", hours)
		return
	}
	fmt.Printf("  %dh: start %02d:00 local, avg %.2f EUR/MWh\n", b.Hours, b.StartHour, b.AverageEURMWh)
}
