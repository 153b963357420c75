package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dayahead-prices/internal/api/models"
	"dayahead-prices/internal/entsoe"
	"dayahead-prices/internal/model"
	"dayahead-prices/internal/pipeline"
	"dayahead-prices/internal/prices"
)

// latestParam in the :date position asks for the most recent publishable day.
const latestParam = "latest"

// PricesHandler serves normalized day-ahead price series
type PricesHandler struct {
	svc          *prices.Service
	fallbackDays int
}

// NewPricesHandler creates a new prices handler
func NewPricesHandler(svc *prices.Service, fallbackDays int) *PricesHandler {
	return &PricesHandler{svc: svc, fallbackDays: fallbackDays}
}

// GetDay handles GET /api/v1/prices/:date where :date is a calendar date,
// "today", "tomorrow" or "latest".
func (h *PricesHandler) GetDay(c *gin.Context) {
	series, ok := resolveDaySeries(c, h.svc, h.fallbackDays)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.BuildReport(series))
}

// resolveDaySeries turns the :date path segment into a validated series,
// writing the error response itself when it cannot.
func resolveDaySeries(c *gin.Context, svc *prices.Service, fallbackDays int) (*model.DailyPriceSeries, bool) {
	raw := c.Param("date")

	if raw == latestParam {
		series, err := svc.LatestAvailable(c.Request.Context(), svc.Today(), fallbackDays)
		if err != nil {
			respondServiceError(c, err)
			return nil, false
		}
		return series, true
	}

	date, err := svc.ResolveDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_DATE",
				Message: err.Error(),
			},
		})
		return nil, false
	}

	series, err := svc.Day(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return series, true
}

// respondServiceError maps the typed fetch and normalization errors onto
// HTTP statuses: 404 when the day genuinely has no publishable prices, 502
// when the upstream platform is at fault, 500 otherwise.
func respondServiceError(c *gin.Context, err error) {
	var (
		noData     *entsoe.NoDataError
		apiErr     *entsoe.APIError
		malformed  *entsoe.MalformedDocumentError
		incomplete *pipeline.IncompleteDayError
	)

	switch {
	case errors.As(err, &noData):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_DATA",
				Message: noData.Reason,
			},
		})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INCOMPLETE_DAY",
				Message: err.Error(),
				Details: map[string]interface{}{
					"want_hours": incomplete.Want,
					"got_hours":  incomplete.Got,
				},
			},
		})
	case errors.Is(err, pipeline.ErrNoQualifyingSeries):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_QUALIFYING_SERIES",
				Message: err.Error(),
			},
		})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: map[string]interface{}{
					"status_code": apiErr.StatusCode,
					"retry_after": apiErr.RetryAfter,
				},
			},
		})
	case errors.As(err, &malformed):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MALFORMED_DOCUMENT",
				Message: malformed.Reason,
			},
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UPSTREAM_TIMEOUT",
				Message: "The transparency platform did not answer in time",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: err.Error(),
			},
		})
	}
}
