package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dayahead-prices/internal/api/models"
	"dayahead-prices/internal/entsoe"
)

// ZonesHandler lists the built-in bidding zones
type ZonesHandler struct{}

// NewZonesHandler creates a new zones handler
func NewZonesHandler() *ZonesHandler {
	return &ZonesHandler{}
}

// ListZones handles GET /api/v1/zones
func (h *ZonesHandler) ListZones(c *gin.Context) {
	c.JSON(http.StatusOK, models.ZonesResponse{Zones: entsoe.Zones()})
}
