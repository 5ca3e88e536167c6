package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tweetsmith/tweetsmith/internal/config"
	"github.com/tweetsmith/tweetsmith/internal/copycat"
	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

type Handler struct {
	Cfg     config.Config
	Log     *logrus.Logger
	Tweets  *tweet.Service
	Copycat *copycat.Service
}

func NewHandler(cfg config.Config, log *logrus.Logger, tweets *tweet.Service, cc *copycat.Service) *Handler {
	return &Handler{Cfg: cfg, Log: log, Tweets: tweets, Copycat: cc}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// requireModelKey short-circuits with a configuration error when the
// secondary backend key is missing; nothing can be served without it.
func (h *Handler) requireModelKey(c *gin.Context) bool {
	if h.Cfg.GeminiAPIKey == "" {
		fail(c, http.StatusInternalServerError, "server is missing the model API key")
		return false
	}
	return true
}
