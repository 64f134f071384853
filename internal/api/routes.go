package api

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arkhambot/arkhambot/internal/api/handlers"
	"github.com/arkhambot/arkhambot/internal/metrics"
	"github.com/arkhambot/arkhambot/internal/services"
)

func SetupRouter(lookupService *services.LookupService, resolverService *services.ResolverService, catalogService *services.CatalogService, deckFetcher services.DeckFetcher, catalogWorker *services.CatalogWorker) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	router.Use(requestMetrics())

	// Initialize handlers
	lookupHandler := handlers.NewLookupHandler(lookupService, resolverService)
	deckHandler := handlers.NewDeckHandler(catalogService, deckFetcher)
	catalogHandler := handlers.NewCatalogHandler(catalogWorker)

	// API routes
	api := router.Group("/api")
	{
		api.POST("/lookup", lookupHandler.ProcessMessage)

		// Card routes
		cards := api.Group("/cards")
		{
			cards.GET("/search", lookupHandler.SearchCards)
		}

		// Deck routes
		decks := api.Group("/decks")
		{
			decks.GET("/:kind/:id", deckHandler.GetDeckSections)
		}

		// Catalog routes
		catalog := api.Group("/catalog")
		{
			catalog.POST("/reload", catalogHandler.Reload)
			catalog.GET("/status", catalogHandler.Status)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestMetrics records per-request counters using the route template as
// the path label, so /api/decks/:kind/:id stays a single series.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
