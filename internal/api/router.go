package api

import (
	"net/http"

	"plan-picker/internal/api/handlers"
	"plan-picker/internal/api/middleware"
	"plan-picker/internal/config"
	"plan-picker/internal/data"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes for the plan picker API.
func NewRouter(source data.CatalogSource, cfg *config.Config) *gin.Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	recommendHandler := handlers.NewRecommendHandler(source, cfg)
	valuationHandler := handlers.NewValuationHandler(cfg.Valuation.Volatility)
	strategyHandler := handlers.NewStrategyHandler(cfg.Selection.Strategy)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/recommend", recommendHandler.Recommend)
		v1.POST("/option-value", valuationHandler.OptionValue)
		v1.POST("/fees/parse", valuationHandler.ParseFee)

		v1.GET("/strategies", strategyHandler.ListStrategies)
		v1.GET("/tariffs", handlers.ListTariffs)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
