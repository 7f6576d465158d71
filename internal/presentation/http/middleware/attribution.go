package middleware

import (
	"regexp"

	"github.com/anishwij/beacon-go/internal/application/services"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/monitoring"
	"github.com/gin-gonic/gin"
)

// AttributionMiddleware creates the request interceptor for the attribution
// capture pipeline. On every request whose path does not match the exclusion
// pattern it resolves the session identity, extracts campaign attributes,
// merges them into the store, and sets the session cookie on first sight.
// The response is always passed through untouched; nothing in this pipeline
// can fail the request.
func AttributionMiddleware(svc *services.AttributionService, exclusion *regexp.Regexp, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if exclusion != nil && exclusion.MatchString(c.Request.URL.Path) {
			c.Next()
			return
		}

		if metrics != nil {
			metrics.RequestsIntercepted.Inc()
		}

		// A cookie read error means no usable session cookie; resolution
		// falls through to minting a fresh identity.
		cookieValue, _ := c.Cookie(svc.CookieName())
		res := svc.Resolve(cookieValue)

		attrs := svc.Extract(c.Request.URL, c.Request.Header)
		svc.Capture(c.Request.Context(), res.SessionID, attrs)

		if directive := svc.IssueCookie(res); directive != nil {
			if metrics != nil {
				metrics.SessionsCreated.Inc()
			}
			c.SetSameSite(directive.SameSite)
			c.SetCookie(directive.Name, directive.Value, directive.MaxAge, directive.Path, "", directive.Secure, directive.HTTPOnly)
			svc.NotifyNewSession(res.SessionID, attrs)
		}

		c.Set("sessionId", res.SessionID)
		c.Set("isNewSession", res.IsNewSession)

		c.Next()
	}
}

// GetSessionID retrieves the resolved session id from gin context.
func GetSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get("sessionId")
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
