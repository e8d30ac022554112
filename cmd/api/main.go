package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"plan-picker/internal/api"
	"plan-picker/internal/config"
	"plan-picker/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&log.JSONFormatter{})
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Default()
	if path := os.Getenv("PLAN_PICKER_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", path, err)
		}
		cfg = loaded
		log.Infof("Loaded config from %s", path)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	cache, closeCache := newCache(cfg)
	defer closeCache()

	client := data.NewCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, cache)
	router := api.NewRouter(client, cfg)

	// Serve static files from web/dist (if it exists)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
				return
			}
			c.File(staticDir + "/index.html")
		})
		log.Infof("Serving static files from %s", staticDir)
	} else {
		log.Infof("Static directory %s not found, skipping static file serving", staticDir)
	}

	addr := fmt.Sprintf(":%s", port)
	log.WithFields(log.Fields{
		"addr":       addr,
		"catalog":    cfg.Catalog.BaseURL,
		"volatility": cfg.Valuation.Volatility,
		"strategy":   cfg.Selection.Strategy,
	}).Info("Starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newCache picks Redis when a URL is configured, the in-process cache when
// caching is enabled, and nothing otherwise.
func newCache(cfg *config.Config) (data.Cache, func()) {
	if cfg.Cache.RedisURL != "" {
		rc, err := data.NewRedisCache(context.Background(), cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err == nil {
			log.Infof("Using Redis catalog cache (ttl %s)", cfg.Cache.TTL)
			return rc, func() { _ = rc.Close() }
		}
		log.Warnf("Redis cache unavailable, falling back: %v", err)
	}
	if cfg.Cache.Enabled {
		mc := data.NewResponseCache(cfg.Cache.TTL)
		log.Infof("Using in-memory catalog cache (ttl %s)", cfg.Cache.TTL)
		return mc, mc.Close
	}
	return nil, func() {}
}
