// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/anishwij/beacon-go/internal/application/services"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains operator authentication HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostLogin handles POST /api/v1/auth/login - operator authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request")
	defer marker.Complete()

	var loginReq struct {
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, err := h.authService.AuthenticateOperator(loginReq.Password)
	if err != nil {
		h.logger.Auth().Warn("Login attempt failed", "error", err.Error(), "duration", time.Since(start))
		marker.SetSuccess(false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.SetCookie(
		"operator_auth", // name
		token,           // value
		86400,           // maxAge (24 hours in seconds)
		"/",             // path
		"",              // domain (empty for current domain)
		false,           // secure
		true,            // httpOnly
	)

	marker.SetSuccess(true)
	h.logger.Auth().Info("Operator login successful", "duration", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// AuthMiddleware restricts access to operator-only endpoints
func (h *AuthHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated := false

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			authenticated = h.authService.ValidateOperator(authHeader)
		} else if cookie, err := c.Cookie("operator_auth"); err == nil {
			authenticated = h.authService.ValidateOperator(cookie)
		}

		if !authenticated {
			h.logger.Auth().Warn("Unauthorized access attempt", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
