package handlers

import (
	"net/http"

	"github.com/anishwij/beacon-go/internal/application/services"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// CampaignHandlers exposes the campaign registry API
type CampaignHandlers struct {
	campaignService *services.CampaignService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewCampaignHandlers creates campaign handlers with injected dependencies
func NewCampaignHandlers(campaignService *services.CampaignService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CampaignHandlers {
	return &CampaignHandlers{
		campaignService: campaignService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetCampaigns handles GET /api/v1/campaigns
func (h *CampaignHandlers) GetCampaigns(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_campaigns_request")
	defer marker.Complete()

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context())
	if err != nil {
		h.logger.Campaign().Error("Failed to list campaigns", "error", err.Error())
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list campaigns"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// PostCampaign handles POST /api/v1/campaigns (operator only)
func (h *CampaignHandlers) PostCampaign(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_campaign_request")
	defer marker.Complete()

	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug" binding:"required"`
		UTMSource   string `json:"utmSource" binding:"required"`
		UTMMedium   string `json:"utmMedium"`
		UTMCampaign string `json:"utmCampaign"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.campaignService.CreateCampaign(c.Request.Context(), req.Name, req.Slug, req.UTMSource, req.UTMMedium, req.UTMCampaign)
	if err != nil {
		h.logger.Campaign().Warn("Campaign creation failed", "error", err.Error(), "slug", req.Slug)
		marker.SetError(err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, gin.H{"campaign": created})
}

// GetCampaign handles GET /api/v1/campaigns/:id
func (h *CampaignHandlers) GetCampaign(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_campaign_request")
	defer marker.Complete()

	found, err := h.campaignService.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load campaign"})
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"campaign": found})
}

// GetCampaignURL handles GET /api/v1/campaigns/:id/url - the tagged landing
// URL a developer can follow to exercise the capture pipeline.
func (h *CampaignHandlers) GetCampaignURL(c *gin.Context) {
	found, err := h.campaignService.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load campaign"})
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": h.campaignService.LandingURL(found)})
}
