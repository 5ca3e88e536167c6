package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tweetsmith/tweetsmith/internal/copycat"
)

func (h *Handler) CopycatSearch(c *gin.Context) {
	if !h.requireModelKey(c) {
		return
	}

	var req copycat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := req.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	res, err := h.Copycat.Search(ctx, req)
	if err != nil {
		// single backend, no fallback list: any failure means unavailable
		fail(c, http.StatusServiceUnavailable, "copycat search is currently unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"searchMode":        res.SearchMode,
		"originalTweetInfo": res.OriginalTweetInfo,
		"results":           res.Matches,
		"summary":           res.Summary,
		"annotations":       res.Annotations,
		"parseSucceeded":    res.ParseSucceeded,
		"processingTime":    fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
	})
}
