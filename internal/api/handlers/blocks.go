package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dayahead-prices/internal/analysis"
	"dayahead-prices/internal/api/models"
	"dayahead-prices/internal/prices"
)

// BlocksHandler serves cheapest-block lookups and appliance run planning
type BlocksHandler struct {
	svc          *prices.Service
	fallbackDays int
}

// NewBlocksHandler creates a new blocks handler
func NewBlocksHandler(svc *prices.Service, fallbackDays int) *BlocksHandler {
	return &BlocksHandler{svc: svc, fallbackDays: fallbackDays}
}

// GetBlocks handles GET /api/v1/prices/:date/blocks
func (h *BlocksHandler) GetBlocks(c *gin.Context) {
	series, ok := resolveDaySeries(c, h.svc, h.fallbackDays)
	if !ok {
		return
	}

	report := h.svc.BuildReport(series)
	c.JSON(http.StatusOK, models.BlocksResponse{
		Date:           report.Date,
		Zone:           report.Zone,
		CheapestBlocks: report.CheapestBlocks,
	})
}

// PlanRun handles GET /api/v1/prices/:date/plan
func (h *BlocksHandler) PlanRun(c *gin.Context) {
	var q models.PlanQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	series, ok := resolveDaySeries(c, h.svc, h.fallbackDays)
	if !ok {
		return
	}

	block, err := analysis.PlanRun(series, analysis.PlanRequest{
		DurationHours: q.Duration,
		NotBefore:     q.NotBefore,
		FinishBy:      q.FinishBy,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_PLAN",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.PlanResponse{
		Date:          series.DateString(),
		Zone:          h.svc.Zone().Code,
		DurationHours: q.Duration,
		NotBefore:     q.NotBefore,
		FinishBy:      q.FinishBy,
		Block:         analysis.NewReportBlock(block),
	})
}
