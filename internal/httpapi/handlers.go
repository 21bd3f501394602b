package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/silowatch/silowatch/internal/ingest"
)

// healthz is a handler for the /healthz endpoint.
func (s *HTTPServer) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listSubscriptions is a handler for the /api/v1/subscriptions endpoint.
// It returns all subscriptions created by the given user.
func (s *HTTPServer) listSubscriptions(c *gin.Context) {
	creatorParam := c.Query("creator")
	if creatorParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creator is required"})
		return
	}

	creator, err := strconv.ParseInt(creatorParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid creator id"})
		return
	}

	subs, err := s.store.ListByCreator(creator)
	if err != nil {
		s.logger.Error("Failed to list subscriptions", "error", err, "creator", creator)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// submitUpdate is a handler for the /api/v1/updates endpoint. It accepts a
// health factor update directly, for deployments where the database channel
// is not reachable.
func (s *HTTPServer) submitUpdate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	update, err := ingest.ParseUpdate(raw)
	if err != nil {
		s.logger.Debug("Rejected update payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.pipeline.Submit(update)
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}
