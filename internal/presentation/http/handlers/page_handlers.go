package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/anishwij/beacon-go/internal/application/services"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// PageHandlers serves the minimal landing and developer pages. These pages
// exist so the interceptor has something to run against; the real frontend
// lives elsewhere.
type PageHandlers struct {
	campaignService *services.CampaignService
	logger          *logging.ChanneledLogger
}

// NewPageHandlers creates page handlers with injected dependencies
func NewPageHandlers(campaignService *services.CampaignService, logger *logging.ChanneledLogger) *PageHandlers {
	return &PageHandlers{
		campaignService: campaignService,
		logger:          logger,
	}
}

// GetHome handles GET /
func (h *PageHandlers) GetHome(c *gin.Context) {
	h.renderPage(c, "beacon", `<p>Landing page. Visit <a href="/campaigns">/campaigns</a> to pick a campaign,
then check <a href="/api/v1/sessions/me">/api/v1/sessions/me</a> for your captured attribution.</p>`)
}

// GetAbout handles GET /about
func (h *PageHandlers) GetAbout(c *gin.Context) {
	h.renderPage(c, "about", `<p>beacon records campaign attribution per browsing session.</p>`)
}

// GetCampaignsPage handles GET /campaigns - the developer campaign picker
func (h *PageHandlers) GetCampaignsPage(c *gin.Context) {
	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context())
	if err != nil {
		h.logger.Campaign().Error("Failed to render campaign page", "error", err.Error())
		h.renderPage(c, "campaigns", `<p>Campaign registry unavailable.</p>`)
		return
	}

	var b strings.Builder
	b.WriteString("<ul>")
	for _, cmp := range campaigns {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`,
			html.EscapeString(h.campaignService.LandingURL(cmp)),
			html.EscapeString(cmp.Name))
	}
	b.WriteString("</ul>")
	if len(campaigns) == 0 {
		b.Reset()
		b.WriteString(`<p>No campaigns registered yet. POST /api/v1/campaigns to add one.</p>`)
	}

	h.renderPage(c, "campaigns", b.String())
}

func (h *PageHandlers) renderPage(c *gin.Context, title, body string) {
	page := fmt.Sprintf(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body><h1>%s</h1>%s</body>
</html>`, html.EscapeString(title), html.EscapeString(title), body)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
