package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListHistory(c *gin.Context) {
	visitorID := c.Query("visitorId")
	if visitorID == "" {
		fail(c, http.StatusBadRequest, "visitorId is required")
		return
	}

	recs, err := h.Tweets.History(c.Request.Context(), visitorID)
	if err != nil {
		h.Log.WithError(err).Error("history list failed")
		fail(c, http.StatusInternalServerError, "failed to load history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": recs})
}

type deleteHistoryReq struct {
	ID        string `json:"id"`
	VisitorID string `json:"visitorId"`
}

func (h *Handler) DeleteHistory(c *gin.Context) {
	var req deleteHistoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.ID == "" || req.VisitorID == "" {
		fail(c, http.StatusBadRequest, "id and visitorId are required")
		return
	}

	// scoped by both id and visitor id; a miss is a no-op by contract
	if err := h.Tweets.DeleteHistory(c.Request.Context(), req.ID, req.VisitorID); err != nil {
		h.Log.WithError(err).Error("history delete failed")
		fail(c, http.StatusInternalServerError, "failed to delete history entry")
		return
	}

	c.Status(http.StatusNoContent)
}
