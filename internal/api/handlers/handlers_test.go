package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayahead-prices/internal/entsoe"
	"dayahead-prices/internal/model"
	"dayahead-prices/internal/prices"
)

// stubFetcher serves fixed documents per date, errors per date, and can
// synthesize a flat-priced day for anything else.
type stubFetcher struct {
	docs    map[string]*model.MarketDocument
	errs    map[string]error
	dynamic bool
}

func (f *stubFetcher) FetchLocalDay(_ context.Context, date time.Time, loc *time.Location) (*model.MarketDocument, error) {
	key := date.Format(model.DateLayout)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if doc, ok := f.docs[key]; ok {
		return doc, nil
	}
	if f.dynamic {
		start, _ := model.LocalDayWindow(date, loc)
		prices := make([]float64, model.HoursInLocalDay(date, loc))
		for i := range prices {
			prices[i] = 42.0
		}
		return hourlyDoc(start, prices), nil
	}
	return nil, &entsoe.NoDataError{Reason: "no matching data"}
}

func hourlyDoc(startUTC time.Time, prices []float64) *model.MarketDocument {
	points := make([]model.RawPoint, len(prices))
	for i, p := range prices {
		points[i] = model.RawPoint{Position: i + 1, Price: p}
	}
	return &model.MarketDocument{
		Series: []model.CandidateSeries{{
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
				Points:     points,
			}},
		}},
	}
}

// valleyPrices is a day of 50 with a cheap stretch over hours 2..4.
func valleyPrices() []float64 {
	out := make([]float64, 24)
	for i := range out {
		out[i] = 50
	}
	out[2], out[3], out[4] = 20, 10, 15
	return out
}

func newTestRouter(t *testing.T, fetcher prices.Fetcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := prices.New(fetcher, entsoe.DefaultZone())
	require.NoError(t, err)

	pricesHandler := NewPricesHandler(svc, 3)
	blocksHandler := NewBlocksHandler(svc, 3)
	zonesHandler := NewZonesHandler()

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/prices/:date", pricesHandler.GetDay)
	v1.GET("/prices/:date/blocks", blocksHandler.GetBlocks)
	v1.GET("/prices/:date/plan", blocksHandler.PlanRun)
	v1.GET("/zones", zonesHandler.ListZones)
	return router
}

func doGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestGetDay(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{docs: map[string]*model.MarketDocument{
		"2024-01-15": hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), valleyPrices()),
	}})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15")
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Date   string `json:"date"`
		Zone   string `json:"zone"`
		Points []struct {
			Hour        int     `json:"hour"`
			PriceEURMWh float64 `json:"price_eur_mwh"`
		} `json:"points"`
		Statistics struct {
			MinHour   int     `json:"min_hour"`
			MinEURMWh float64 `json:"min_eur_mwh"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "2024-01-15", report.Date)
	assert.Equal(t, "10YBE----------2", report.Zone)
	require.Len(t, report.Points, 24)
	assert.Equal(t, 3, report.Statistics.MinHour)
	assert.Equal(t, 10.0, report.Statistics.MinEURMWh)
}

func TestGetLatest(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{dynamic: true})

	rec := doGet(t, router, "/api/v1/prices/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	loc, err := time.LoadLocation("Europe/Brussels")
	require.NoError(t, err)

	var report struct {
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, time.Now().In(loc).Format(model.DateLayout), report.Date)
}

func TestGetDayKeywords(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{dynamic: true})

	loc, err := time.LoadLocation("Europe/Brussels")
	require.NoError(t, err)

	for keyword, offset := range map[string]int{"today": 0, "tomorrow": 1} {
		rec := doGet(t, router, "/api/v1/prices/"+keyword)
		require.Equal(t, http.StatusOK, rec.Code, keyword)

		var report struct {
			Date string `json:"date"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		want := time.Now().In(loc).AddDate(0, 0, offset).Format(model.DateLayout)
		assert.Equal(t, want, report.Date, keyword)
	}
}

func TestGetLatestFallsBack(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Brussels")
	require.NoError(t, err)
	today := time.Now().In(loc).Format(model.DateLayout)

	router := newTestRouter(t, &stubFetcher{
		dynamic: true,
		errs:    map[string]error{today: &entsoe.NoDataError{Reason: "not published yet"}},
	})

	rec := doGet(t, router, "/api/v1/prices/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	yesterday := time.Now().In(loc).AddDate(0, 0, -1).Format(model.DateLayout)
	assert.Equal(t, yesterday, report.Date)
}

func TestGetDayNoData(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_DATA", errorCode(t, rec))
}

func TestGetDayBadDate(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{})

	rec := doGet(t, router, "/api/v1/prices/15-01-2024")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", errorCode(t, rec))
}

func TestGetDayIncomplete(t *testing.T) {
	short := valleyPrices()[:20]
	router := newTestRouter(t, &stubFetcher{docs: map[string]*model.MarketDocument{
		"2024-01-15": hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), short),
	}})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				WantHours int `json:"want_hours"`
				GotHours  int `json:"got_hours"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INCOMPLETE_DAY", body.Error.Code)
	assert.Equal(t, 24, body.Error.Details.WantHours)
	assert.Equal(t, 20, body.Error.Details.GotHours)
}

func TestGetDayUpstreamFailure(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{errs: map[string]error{
		"2024-01-15": &entsoe.APIError{StatusCode: 401, Code: "UNAUTHORIZED", Message: "invalid security token"},
	}})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestGetBlocks(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{docs: map[string]*model.MarketDocument{
		"2024-01-15": hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), valleyPrices()),
	}})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15/blocks")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Date   string `json:"date"`
		Blocks struct {
			OneHour *struct {
				StartHour int     `json:"start_hour"`
				Average   float64 `json:"average_eur_mwh"`
			} `json:"1_hour"`
			ThreeHours *struct {
				StartHour int       `json:"start_hour"`
				Prices    []float64 `json:"prices"`
			} `json:"3_hours"`
		} `json:"cheapest_blocks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-01-15", body.Date)
	require.NotNil(t, body.Blocks.OneHour)
	assert.Equal(t, 3, body.Blocks.OneHour.StartHour)
	assert.Equal(t, 10.0, body.Blocks.OneHour.Average)
	require.NotNil(t, body.Blocks.ThreeHours)
	assert.Equal(t, 2, body.Blocks.ThreeHours.StartHour)
	assert.Equal(t, []float64{20, 10, 15}, body.Blocks.ThreeHours.Prices)
}

func TestPlanRun(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{docs: map[string]*model.MarketDocument{
		"2024-01-15": hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), valleyPrices()),
	}})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15/plan?duration=2&not_before=05:00")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		DurationHours int `json:"duration_hours"`
		Block         *struct {
			StartHour int `json:"start_hour"`
		} `json:"block"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.DurationHours)
	require.NotNil(t, body.Block)
	assert.Equal(t, 5, body.Block.StartHour)
}

func TestPlanRunNoRoomReturnsNullBlock(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{docs: map[string]*model.MarketDocument{
		"2024-01-15": hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), valleyPrices()),
	}})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15/plan?duration=4&not_before=22:00")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Block json.RawMessage `json:"block"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "null", string(body.Block))
}

func TestPlanRunValidation(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{docs: map[string]*model.MarketDocument{
		"2024-01-15": hourlyDoc(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), valleyPrices()),
	}})

	rec := doGet(t, router, "/api/v1/prices/2024-01-15/plan")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rec))

	rec = doGet(t, router, "/api/v1/prices/2024-01-15/plan?duration=2&not_before=20:00&finish_by=06:00")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PLAN", errorCode(t, rec))
}

func TestListZones(t *testing.T) {
	router := newTestRouter(t, &stubFetcher{})

	rec := doGet(t, router, "/api/v1/zones")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Zones []struct {
			Code     string `json:"code"`
			Name     string `json:"name"`
			Short    string `json:"short"`
			Timezone string `json:"timezone"`
		} `json:"zones"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Zones)

	found := false
	for _, z := range body.Zones {
		assert.NotEmpty(t, z.Code)
		assert.NotEmpty(t, z.Timezone)
		if z.Short == "BE" {
			found = true
			assert.Equal(t, "10YBE----------2", z.Code)
		}
	}
	assert.True(t, found, "Belgium should be listed")
}
