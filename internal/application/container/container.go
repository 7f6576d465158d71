// Package container provides dependency injection for all singleton services
package container

import (
	"regexp"

	"github.com/anishwij/beacon-go/internal/application/services"
	"github.com/anishwij/beacon-go/internal/domain/repositories"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/monitoring"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/performance"
)

// Container holds all singleton services and infrastructure dependencies.
// Everything here is constructed once at startup and reused across requests.
type Container struct {
	// Application services (stateless singletons)
	AttributionService *services.AttributionService
	CampaignService    *services.CampaignService
	AuthService        *services.AuthService

	// Infrastructure dependencies
	AttributionStore repositories.AttributionStore
	Logger           *logging.ChanneledLogger
	PerfTracker      *performance.Tracker
	Metrics          *monitoring.Metrics

	// Interceptor path-exclusion policy, compiled once
	ExclusionPattern *regexp.Regexp
}

// NewContainer creates and wires all singleton services
func NewContainer(
	attributionService *services.AttributionService,
	campaignService *services.CampaignService,
	authService *services.AuthService,
	store repositories.AttributionStore,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	metrics *monitoring.Metrics,
	exclusionPattern *regexp.Regexp,
) *Container {
	return &Container{
		AttributionService: attributionService,
		CampaignService:    campaignService,
		AuthService:        authService,
		AttributionStore:   store,
		Logger:             logger,
		PerfTracker:        perfTracker,
		Metrics:            metrics,
		ExclusionPattern:   exclusionPattern,
	}
}
