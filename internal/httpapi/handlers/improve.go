package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tweetsmith/tweetsmith/internal/ai"
	"github.com/tweetsmith/tweetsmith/internal/tweet"
)

type improveReq struct {
	Text      string `json:"text"`
	AddEmojis bool   `json:"addEmojis"`
	Mode      string `json:"mode"`
	VisitorID string `json:"visitorId"`
}

func (h *Handler) ImproveTweet(c *gin.Context) {
	if !h.requireModelKey(c) {
		return
	}

	var req improveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		fail(c, http.StatusBadRequest, "text is required")
		return
	}
	switch req.Mode {
	case "", "auto", "single", "thread":
	default:
		fail(c, http.StatusBadRequest, "mode must be auto, single or thread")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Cfg.RequestTimeout)
	defer cancel()

	res, err := h.Tweets.Improve(ctx, tweet.ImproveInput{
		Text:      req.Text,
		AddEmojis: req.AddEmojis,
		Mode:      req.Mode,
		VisitorID: req.VisitorID,
	})
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			fail(c, http.StatusServiceUnavailable, "all model backends are currently unavailable")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"type":           res.Kind,
		"tweets":         res.Tweets,
		"rawData":        res.Raw,
		"isThread":       res.IsThread(),
		"characterCount": res.CharacterCount(),
		"parseSucceeded": res.ParseSucceeded,
	})
}
