package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayahead-prices/internal/model"
)

// hourlyDoc builds a one-series publication with consecutive hourly prices
// from startUTC.
func hourlyDoc(startUTC time.Time, prices []float64) *model.MarketDocument {
	pts := make([]model.RawPoint, len(prices))
	for i, pr := range prices {
		pts[i] = model.RawPoint{Position: i + 1, Price: pr}
	}
	return &model.MarketDocument{Series: []model.CandidateSeries{{
		Metadata: model.SeriesMetadata{
			MRID:         "1",
			BusinessType: "A62",
			CurveType:    "A01",
			Currency:     "EUR",
			MeasureUnit:  "MWH",
		},
		Periods: []model.Period{{
			StartUTC:   startUTC,
			Resolution: model.Resolution60Min,
			Points:     pts,
		}},
	}}}
}

func flatPrices(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestRunOrdinaryDay(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	prices := make([]float64, 24)
	for i := range prices {
		prices[i] = 50 + float64(i)
	}
	doc := hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), prices)

	res, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	require.Len(t, res.Series.Points, 24)
	assert.Equal(t, "2024-01-15", res.Series.DateString())
	assert.False(t, res.Series.Degraded)
	assert.Equal(t, 1, res.SeriesUsed)
	assert.Equal(t, 0, res.DroppedPoints)
	assert.Equal(t, 0, res.DuplicatePoints)

	for i, p := range res.Series.Points {
		assert.Equal(t, i, p.LocalHour, "hour %d", i)
		assert.Equal(t, 50+float64(i), p.PriceEURPerMWh)
		if i > 0 {
			assert.True(t, res.Series.Points[i-1].TimestampUTC.Before(p.TimestampUTC))
		}
	}
}

func TestRunSpringForward(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 3, 31, 0, 0, 0, 0, loc)

	// 23 points covering exactly the short day: valid.
	doc := hourlyDoc(time.Date(2024, 3, 30, 23, 0, 0, 0, time.UTC), flatPrices(23, 60))
	res, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	require.Len(t, res.Series.Points, 23)

	// Wall-clock hour 2 does not exist on this day.
	for _, p := range res.Series.Points {
		assert.NotEqual(t, 2, p.LocalHour)
	}

	// A publisher that pretended the day had 24 hours: the spillover point
	// belongs to April 1st and is trimmed, the day still completes at 23.
	doc = hourlyDoc(time.Date(2024, 3, 30, 23, 0, 0, 0, time.UTC), flatPrices(24, 60))
	res, err = New(loc).Run(doc, date)
	require.NoError(t, err)
	assert.Len(t, res.Series.Points, 23)
}

func TestRunFallBack(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 10, 27, 0, 0, 0, 0, loc)

	// The long day needs all 25 slots.
	doc := hourlyDoc(time.Date(2024, 10, 26, 22, 0, 0, 0, time.UTC), flatPrices(25, 45))
	res, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	require.Len(t, res.Series.Points, 25)

	hour2 := 0
	for _, p := range res.Series.Points {
		if p.LocalHour == 2 {
			hour2++
		}
	}
	assert.Equal(t, 2, hour2, "the repeated wall-clock hour appears twice with distinct timestamps")

	// A feed that skipped the repeated hour is short one slot: fatal.
	doc = hourlyDoc(time.Date(2024, 10, 26, 22, 0, 0, 0, time.UTC), flatPrices(24, 45))
	_, err = New(loc).Run(doc, date)
	var incomplete *IncompleteDayError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 25, incomplete.Want)
	assert.Equal(t, 24, incomplete.Got)
}

func TestRunIncompleteDay(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	// 23 of 24 hours: the feed has a gap, the day must not ship.
	doc := hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), flatPrices(23, 50))
	_, err := New(loc).Run(doc, date)
	require.Error(t, err)

	var incomplete *IncompleteDayError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 24, incomplete.Want)
	assert.Equal(t, 23, incomplete.Got)

	// A document about a different day entirely: zero points survive.
	doc = hourlyDoc(time.Date(2024, 2, 14, 23, 0, 0, 0, time.UTC), flatPrices(24, 50))
	_, err = New(loc).Run(doc, date)
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 0, incomplete.Got)
}

func TestRunDeduplicatesAcrossSeries(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)
	start := time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC)

	// Two qualifying series covering the same day; the second is cheaper
	// for local hour 10 only. The merged day takes the minimum per slot.
	expensive := flatPrices(24, 42)
	cheaper := flatPrices(24, 42)
	cheaper[10] = 40

	doc := hourlyDoc(start, expensive)
	second := hourlyDoc(start, cheaper).Series[0]
	second.Metadata.MRID = "2"
	doc.Series = append(doc.Series, second)

	res, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	require.Len(t, res.Series.Points, 24)
	assert.Equal(t, 2, res.SeriesUsed)
	assert.Equal(t, 24, res.DuplicatePoints)

	for _, p := range res.Series.Points {
		if p.LocalHour == 10 {
			assert.Equal(t, 40.0, p.PriceEURPerMWh)
		} else {
			assert.Equal(t, 42.0, p.PriceEURPerMWh)
		}
	}
}

func TestRunQuarterHourlyDay(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, loc)
	start := time.Date(2024, 6, 30, 22, 0, 0, 0, time.UTC)

	// 96 quarter-hour points, each hour averaging to its hour index.
	pts := make([]model.RawPoint, 96)
	for i := range pts {
		hour := i / 4
		offsets := []float64{-2, -1, 1, 2}
		pts[i] = model.RawPoint{Position: i + 1, Price: float64(hour*10) + offsets[i%4]}
	}
	doc := &model.MarketDocument{Series: []model.CandidateSeries{{
		Metadata: model.SeriesMetadata{MRID: "q", Currency: "EUR", MeasureUnit: "MWH"},
		Periods: []model.Period{{
			StartUTC:   start,
			Resolution: model.Resolution15Min,
			Points:     pts,
		}},
	}}}

	res, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	require.Len(t, res.Series.Points, 24)
	assert.False(t, res.Series.Degraded)

	for i, p := range res.Series.Points {
		assert.InDelta(t, float64(i*10), p.PriceEURPerMWh, 1e-9, "hour %d", i)
		assert.Equal(t, 4, p.SampleCount)
		assert.False(t, p.LowConfidence)
	}
}

func TestRunDegradedFallback(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	doc := hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), flatPrices(24, 50))
	doc.Series[0].Metadata.Currency = "GBP" // nothing qualifies strictly

	res, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	assert.True(t, res.Series.Degraded)
	assert.Len(t, res.Series.Points, 24)
}

func TestRunNoQualifyingSeries(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	_, err := New(loc).Run(&model.MarketDocument{}, date)
	assert.True(t, errors.Is(err, ErrNoQualifyingSeries))
}

func TestRunIsDeterministic(t *testing.T) {
	loc := brussels(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	prices := make([]float64, 24)
	for i := range prices {
		prices[i] = 100 - float64(i)*1.5
	}
	doc := hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), prices)

	first, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	second, err := New(loc).Run(doc, date)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
