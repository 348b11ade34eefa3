package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"dining-status-backend/config"
	"dining-status-backend/internal/mw"
	"dining-status-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.ServerConfig, webpushOptions *webpush.Options, log *zap.Logger) *gin.Engine {
	return newRouter(NewHandler(s, webpushOptions, log), cfg, log)
}

func newRouter(handler *Handler, cfg *config.ServerConfig, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID(), mw.Logger(log.Named("http")))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheStore := cache.New(cfg.CacheTTL, 2*time.Minute)
	caching := mw.Cache(cacheStore, cfg.CacheTTL, func() time.Time { return handler.now() })

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/locations", caching, handler.GetLocations)
		api.GET("/locations/:id", caching, handler.GetLocation)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
