package services

import (
	"context"
	"errors"
	"net/url"

	"github.com/anishwij/beacon-go/internal/domain/entities/campaign"
	"github.com/anishwij/beacon-go/internal/domain/entities/session"
	"github.com/anishwij/beacon-go/internal/domain/repositories"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/security"
)

// CampaignService manages the synthetic campaign registry behind the dev
// pages.
type CampaignService struct {
	repo   repositories.CampaignRepository
	logger *logging.ChanneledLogger
}

// NewCampaignService creates a campaign service.
func NewCampaignService(repo repositories.CampaignRepository, logger *logging.ChanneledLogger) *CampaignService {
	return &CampaignService{repo: repo, logger: logger}
}

// CreateCampaign registers a new campaign with a generated id.
func (s *CampaignService) CreateCampaign(ctx context.Context, name, slug, source, medium, campaignTag string) (*campaign.Campaign, error) {
	if name == "" || slug == "" {
		return nil, errors.New("campaign name and slug are required")
	}
	if source == "" {
		return nil, errors.New("campaign utm_source is required")
	}

	if existing, err := s.repo.FindBySlug(ctx, slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.New("campaign slug already exists")
	}

	c := &campaign.Campaign{
		ID:          security.GenerateULID(),
		Name:        name,
		Slug:        slug,
		UTMSource:   source,
		UTMMedium:   medium,
		UTMCampaign: campaignTag,
	}

	if err := s.repo.Store(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns returns all registered campaigns.
func (s *CampaignService) ListCampaigns(ctx context.Context) ([]*campaign.Campaign, error) {
	return s.repo.FindAll(ctx)
}

// GetCampaign returns a campaign by id, nil when absent.
func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*campaign.Campaign, error) {
	return s.repo.FindByID(ctx, id)
}

// LandingURL builds the tagged landing path for a campaign. Empty UTM
// fields are omitted so the interceptor's extraction stays merge-safe.
func (s *CampaignService) LandingURL(c *campaign.Campaign) string {
	values := url.Values{}
	if c.UTMSource != "" {
		values.Set(session.FieldUTMSource, c.UTMSource)
	}
	if c.UTMMedium != "" {
		values.Set(session.FieldUTMMedium, c.UTMMedium)
	}
	if c.UTMCampaign != "" {
		values.Set(session.FieldUTMCampaign, c.UTMCampaign)
	}

	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}
