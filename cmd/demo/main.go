package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"dayahead-prices/internal/analysis"
	"dayahead-prices/internal/entsoe"
	"dayahead-prices/internal/model"
	"dayahead-prices/internal/pipeline"
)

// Demo:
// - Load a saved Publication_MarketDocument from sample_day.xml
// - Normalize it into one gap-free hourly series for a Brussels day
// - Show the statistics and cheapest-block search on the result
func main() {
	dataPath := flag.String("data", "sample_day.xml", "Path to a saved publication XML")
	dateStr := flag.String("date", "2024-01-15", "Local calendar day to build")
	flag.Parse()

	doc, err := entsoe.LoadDocumentXML(*dataPath)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Loaded %d time series from %s\n", len(doc.Series), *dataPath)

	zone := entsoe.DefaultZone()
	loc, err := time.LoadLocation(zone.Timezone)
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
	fmt.Printf("Built %s: %d hourly prices (series used=%d, dropped=%d, duplicates=%d)\n",
		res.Series.DateString(), len(res.Series.Points), res.SeriesUsed, res.DroppedPoints, res.DuplicatePoints)

	report := analysis.BuildReport(res.Series, zone.Code)

	s := report.Statistics
	fmt.Printf("Average %.2f EUR/MWh, cheapest hour %02d:00 (%.2f), dearest %02d:00 (%.2f)\n",
		s.AverageEURMWh, s.MinHour, s.MinEURMWh, s.MaxHour, s.MaxEURMWh)

	if b := report.CheapestBlocks.ThreeHours; b != nil {
		fmt.Printf("Cheapest 3h run starts %02d:00 local at %.2f EUR/MWh average\n",
			b.StartHour, b.AverageEURMWh)
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(raw))
}
