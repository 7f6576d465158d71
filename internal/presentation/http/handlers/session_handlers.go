package handlers

import (
	"net/http"
	"time"

	"github.com/anishwij/beacon-go/internal/application/services"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// SessionHandlers exposes the attribution readout endpoints
type SessionHandlers struct {
	attributionService *services.AttributionService
	logger             *logging.ChanneledLogger
	perfTracker        *performance.Tracker
}

// NewSessionHandlers creates session handlers with injected dependencies
func NewSessionHandlers(attributionService *services.AttributionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionHandlers {
	return &SessionHandlers{
		attributionService: attributionService,
		logger:             logger,
		perfTracker:        perfTracker,
	}
}

// GetOwnSession handles GET /api/v1/sessions/me - the attribution record
// behind the caller's own session cookie. This backs the dev page that lets
// a developer observe what was captured for their browser.
func (h *SessionHandlers) GetOwnSession(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_own_session_request")
	defer marker.Complete()

	sessionID, err := c.Cookie(h.attributionService.CookieName())
	if err != nil || sessionID == "" {
		c.JSON(http.StatusOK, gin.H{"sessionId": nil, "attributes": nil})
		return
	}

	attrs, found, err := h.attributionService.Lookup(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Store().Warn("Session lookup failed", "error", err.Error())
		marker.SetError(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attribution store unavailable"})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "attributes": nil})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "attributes": attrs})
}

// GetSession handles GET /api/v1/sessions/:id - operator readout of any
// session's attribution record.
func (h *SessionHandlers) GetSession(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_session_request")
	defer marker.Complete()

	sessionID := c.Param("id")

	attrs, found, err := h.attributionService.Lookup(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Store().Warn("Session lookup failed", "error", err.Error(), "duration", time.Since(start))
		marker.SetError(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attribution store unavailable"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "attributes": attrs})
}
