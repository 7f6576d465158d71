package handlers

import (
	"net/http"

	"github.com/anishwij/beacon-go/internal/domain/repositories"
	"github.com/gin-gonic/gin"
)

// HealthHandlers exposes the liveness endpoint
type HealthHandlers struct {
	store repositories.AttributionStore
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(store repositories.AttributionStore) *HealthHandlers {
	return &HealthHandlers{store: store}
}

// GetHealth handles GET /api/health. The store check is advisory: a degraded
// store reports in the payload but the endpoint stays 200 because the site
// itself keeps serving.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	storeStatus := "ok"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		storeStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"store":  storeStatus,
	})
}
