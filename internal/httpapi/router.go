package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tweetsmith/tweetsmith/internal/config"
	"github.com/tweetsmith/tweetsmith/internal/copycat"
	"github.com/tweetsmith/tweetsmith/internal/httpapi/handlers"
	"github.com/tweetsmith/tweetsmith/internal/httpapi/middleware"
	"github.com/tweetsmith/tweetsmith/internal/store/redisstore"
	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

func NewRouter(cfg config.Config, log *logrus.Logger, tweets *tweet.Service, cc *copycat.Service, rds *redisstore.Store) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	h := handlers.NewHandler(cfg, log, tweets, cc)

	r.GET("/ping", h.Ping)

	api := r.Group("/api")
	if rds != nil {
		api.Use(middleware.RateLimit(rds, cfg.RateLimitPerMinute, log))
	}
	api.POST("/improve-tweet", h.ImproveTweet)
	api.GET("/history", h.ListHistory)
	api.DELETE("/history", h.DeleteHistory)
	api.POST("/copycat", h.CopycatSearch)

	return r
}
