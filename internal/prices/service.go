// Package prices ties fetching, normalization and analysis together into
// the operations the API, CLI and scheduler share.
package prices

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"dayahead-prices/internal/analysis"
	"dayahead-prices/internal/entsoe"
	"dayahead-prices/internal/model"
	"dayahead-prices/internal/monitoring"
	"dayahead-prices/internal/pipeline"
)

// Fetcher is the one call the service needs from the transparency client.
type Fetcher interface {
	FetchLocalDay(ctx context.Context, date time.Time, loc *time.Location) (*model.MarketDocument, error)
}

// Service produces validated daily price series for one bidding zone.
type Service struct {
	fetcher Fetcher
	zone    entsoe.Zone
	loc     *time.Location
	pipe    *pipeline.Pipeline
	metrics *monitoring.Metrics
}

func New(fetcher Fetcher, zone entsoe.Zone) (*Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	loc, err := time.LoadLocation(zone.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q for zone %s: %w", zone.Timezone, zone.Code, err)
	}
	return &Service{
		fetcher: fetcher,
		zone:    zone,
		loc:     loc,
		pipe:    pipeline.New(loc),
	}, nil
}

// WithMetrics attaches fetch and normalization counters. Returns the
// service for chaining during wiring.
func (s *Service) WithMetrics(m *monitoring.Metrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) Zone() entsoe.Zone { return s.zone }

// Location is the zone's market timezone, for parsing user-supplied dates.
func (s *Service) Location() *time.Location { return s.loc }

// Day fetches and normalizes one local calendar day. The returned series is
// complete for that day or the error says why it could not be.
func (s *Service) Day(ctx context.Context, date time.Time) (*model.DailyPriceSeries, error) {
	doc, err := s.fetcher.FetchLocalDay(ctx, date, s.loc)
	if err != nil {
		s.recordFetch(err)
		return nil, err
	}
	res, err := s.pipe.Run(doc, date)
	s.recordFetch(err)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordDay(s.zone.Short, res.DroppedPoints, res.DuplicatePoints, res.Series.Degraded)
	}
	return res.Series, nil
}

func (s *Service) recordFetch(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordFetch(s.zone.Short, fetchOutcome(err))
}

func fetchOutcome(err error) string {
	var (
		noData     *entsoe.NoDataError
		apiErr     *entsoe.APIError
		malformed  *entsoe.MalformedDocumentError
		incomplete *pipeline.IncompleteDayError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &noData):
		return "no_data"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.Is(err, pipeline.ErrNoQualifyingSeries):
		return "no_series"
	case errors.As(err, &incomplete):
		return "incomplete_day"
	default:
		return "error"
	}
}

// LatestAvailable returns the most recent publishable day at or before from,
// walking backwards one day per failure. maxBack caps the additional days
// tried; with maxBack 0 only from itself is attempted.
func (s *Service) LatestAvailable(ctx context.Context, from time.Time, maxBack int) (*model.DailyPriceSeries, error) {
	if maxBack < 0 {
		maxBack = 0
	}

	day := from
	var lastErr error
	for attempt := 0; attempt <= maxBack; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		series, err := s.Day(ctx, day)
		if err == nil {
			if attempt > 0 {
				log.Infof("[Prices] Fell back %d day(s) to %s", attempt, series.DateString())
			}
			return series, nil
		}
		lastErr = err
		log.Warnf("[Prices] %s not publishable: %v", day.Format(model.DateLayout), err)
		day = day.AddDate(0, 0, -1)
	}

	return nil, fmt.Errorf("no publishable day between %s and %s: %w",
		day.AddDate(0, 0, 1).Format(model.DateLayout), from.Format(model.DateLayout), lastErr)
}

// BuildReport binds the zone code into the published record.
func (s *Service) BuildReport(series *model.DailyPriceSeries) *analysis.Report {
	return analysis.BuildReport(series, s.zone.Code)
}

// Today returns the current date in the zone's timezone, truncated to
// midnight, the anchor for "latest" requests.
func (s *Service) Today() time.Time {
	now := time.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// ResolveDate turns a user-supplied date string into a local calendar day.
// "today" and "tomorrow" are evaluated against the zone's clock.
func (s *Service) ResolveDate(raw string) (time.Time, error) {
	switch raw {
	case "today":
		return s.Today(), nil
	case "tomorrow":
		return s.Today().AddDate(0, 0, 1), nil
	}
	return model.ParseLocalDate(raw, s.loc)
}
