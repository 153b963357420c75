package main

import (
	"flag"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"dayahead-prices/internal/api/handlers"
	"dayahead-prices/internal/api/middleware"
	"dayahead-prices/internal/config"
	"dayahead-prices/internal/entsoe"
	"dayahead-prices/internal/logging"
	"dayahead-prices/internal/monitoring"
	"dayahead-prices/internal/prices"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
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

	metrics := monitoring.NewMetrics(nil)

	svc, err := prices.New(client, zone)
	if err != nil {
		log.Fatalf("Failed to build price service: %v", err)
	}
	svc.WithMetrics(metrics)

	// Set up Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(metrics.MetricsMiddleware())

	// Initialize handlers
	pricesHandler := handlers.NewPricesHandler(svc, cfg.Fetch.FallbackDays)
	blocksHandler := handlers.NewBlocksHandler(svc, cfg.Fetch.FallbackDays)
	zonesHandler := handlers.NewZonesHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "zone": zone.Code})
	})
	router.GET("/metrics", gin.WrapH(monitoring.PrometheusHandler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/prices/:date", pricesHandler.GetDay)
		api.GET("/prices/:date/blocks", blocksHandler.GetBlocks)
		api.GET("/prices/:date/plan", blocksHandler.PlanRun)
		api.GET("/zones", zonesHandler.ListZones)
	}

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infof("Starting API server on %s (zone %s, %s)", addr, zone.Short, zone.Code)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
