package entsoe

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"dayahead-prices/internal/model"
	"dayahead-prices/internal/xmlwalk"
)

const (
	rootPublication     = "Publication_MarketDocument"
	rootAcknowledgement = "Acknowledgement_MarketDocument"
)

// MalformedDocumentError means the response body was not a usable price
// publication: unparsable XML, an unexpected root element, or a publication
// without any TimeSeries.
type MalformedDocumentError struct {
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return "malformed document: " + e.Reason
}

// NoDataError is the platform's 200 OK that carries an acknowledgement
// instead of prices. It happens every day until the auction results are
// published (around 13:00 market time for the next day).
type NoDataError struct {
	Reason string
}

func (e *NoDataError) Error() string {
	if e.Reason == "" {
		return "no matching data for the requested window"
	}
	return "no matching data: " + e.Reason
}

// instantLayouts are the timestamp spellings seen in timeInterval elements.
// The feed normally writes minute precision ("2024-01-14T23:00Z").
var instantLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

// ParseDocument decodes an API response body into a MarketDocument.
//
// All candidate series the document carries are returned; qualification
// (currency, unit, classification) is the selection step's job. Series and
// periods that cannot be decoded at all are dropped with a warning so one
// junk series cannot sink an otherwise good publication.
func ParseDocument(body []byte) (*model.MarketDocument, error) {
	root, err := xmlwalk.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &MalformedDocumentError{Reason: err.Error()}
	}

	switch root.Local() {
	case rootPublication:
	case rootAcknowledgement:
		return nil, &NoDataError{Reason: root.ChildText("text")}
	default:
		return nil, &MalformedDocumentError{Reason: fmt.Sprintf("unexpected root element %q", root.Local())}
	}

	seriesNodes := root.FindAll("TimeSeries")
	if len(seriesNodes) == 0 {
		return nil, &MalformedDocumentError{Reason: "publication contains no TimeSeries"}
	}

	doc := &model.MarketDocument{Namespace: root.Namespace()}
	for i, ts := range seriesNodes {
		cs, ok := decodeTimeSeries(i, ts)
		if !ok {
			continue
		}
		doc.Series = append(doc.Series, cs)
	}

	log.Debugf("[ENTSOE] Parsed document: %d of %d series decodable (namespace=%s)",
		len(doc.Series), len(seriesNodes), doc.Namespace)
	return doc, nil
}

// decodeTimeSeries extracts one candidate series. A series with no decodable
// period is dropped (ok=false).
func decodeTimeSeries(idx int, ts *xmlwalk.Node) (model.CandidateSeries, bool) {
	cs := model.CandidateSeries{
		Metadata: model.SeriesMetadata{
			MRID:         ts.ChildText("mRID"),
			BusinessType: ts.ChildText("businessType"),
			CurveType:    ts.ChildText("curveType"),
			Currency:     ts.ChildText("currency_Unit.name"),
			MeasureUnit:  ts.ChildText("price_Measure_Unit.name"),
		},
	}

	for _, pn := range ts.FindAll("Period") {
		p, err := decodePeriod(pn)
		if err != nil {
			log.Warnf("[ENTSOE] Skipping period in series %d (mRID=%q): %v", idx+1, cs.Metadata.MRID, err)
			continue
		}
		cs.Periods = append(cs.Periods, p)
	}

	if len(cs.Periods) == 0 {
		log.Warnf("[ENTSOE] Skipping series %d (mRID=%q): no decodable periods", idx+1, cs.Metadata.MRID)
		return model.CandidateSeries{}, false
	}
	return cs, true
}

func decodePeriod(pn *xmlwalk.Node) (model.Period, error) {
	interval := pn.Find("timeInterval")
	if interval == nil {
		return model.Period{}, fmt.Errorf("period has no timeInterval")
	}
	start, err := parseInstant(interval.ChildText("start"))
	if err != nil {
		return model.Period{}, fmt.Errorf("period start: %w", err)
	}
	res, err := model.ParseResolution(pn.ChildText("resolution"))
	if err != nil {
		return model.Period{}, err
	}

	p := model.Period{StartUTC: start.UTC(), Resolution: res}
	for _, pt := range pn.FindAll("Point") {
		rawPos := pt.ChildText("position")
		pos, err := strconv.Atoi(rawPos)
		if err != nil {
			log.Warnf("[ENTSOE] Dropping point with unparsable position %q", rawPos)
			continue
		}
		rawPrice := pt.ChildText("price.amount")
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			log.Warnf("[ENTSOE] Dropping point %d with unparsable price %q", pos, rawPrice)
			continue
		}
		p.Points = append(p.Points, model.RawPoint{Position: pos, Price: price})
	}
	if len(p.Points) == 0 {
		return model.Period{}, fmt.Errorf("period has no decodable points")
	}
	return p, nil
}

// parseInstant parses a timeInterval instant, tolerating both minute and
// second precision. The result is not yet normalized to UTC.
func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing instant")
	}
	var lastErr error
	for _, layout := range instantLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("unparsable instant %q: %w", s, lastErr)
}
