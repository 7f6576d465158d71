package services

import (
	"context"
	"testing"

	"github.com/anishwij/beacon-go/internal/domain/entities/campaign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCampaignRepo is a map-backed stand-in for the sqlite repository.
type fakeCampaignRepo struct {
	byID map[string]*campaign.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{byID: make(map[string]*campaign.Campaign)}
}

func (r *fakeCampaignRepo) FindByID(_ context.Context, id string) (*campaign.Campaign, error) {
	return r.byID[id], nil
}

func (r *fakeCampaignRepo) FindBySlug(_ context.Context, slug string) (*campaign.Campaign, error) {
	for _, c := range r.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCampaignRepo) FindAll(_ context.Context) ([]*campaign.Campaign, error) {
	out := make([]*campaign.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCampaignRepo) Store(_ context.Context, c *campaign.Campaign) error {
	r.byID[c.ID] = c
	return nil
}

func TestCampaignServiceCreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("AssignsID", func(t *testing.T) {
		svc := NewCampaignService(newFakeCampaignRepo(), nil)

		c, err := svc.CreateCampaign(ctx, "Spring Sale", "spring-sale", "linkedin", "social", "spring_sale_2024")
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "spring-sale", c.Slug)

		got, err := svc.GetCampaign(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Spring Sale", got.Name)
	})

	t.Run("RejectsMissingFields", func(t *testing.T) {
		svc := NewCampaignService(newFakeCampaignRepo(), nil)

		_, err := svc.CreateCampaign(ctx, "", "slug", "linkedin", "", "")
		assert.Error(t, err)

		_, err = svc.CreateCampaign(ctx, "Name", "", "linkedin", "", "")
		assert.Error(t, err)

		_, err = svc.CreateCampaign(ctx, "Name", "slug", "", "", "")
		assert.Error(t, err)
	})

	t.Run("RejectsDuplicateSlug", func(t *testing.T) {
		svc := NewCampaignService(newFakeCampaignRepo(), nil)

		_, err := svc.CreateCampaign(ctx, "First", "spring-sale", "linkedin", "", "")
		require.NoError(t, err)

		_, err = svc.CreateCampaign(ctx, "Second", "spring-sale", "google", "", "")
		assert.Error(t, err)
	})
}

func TestCampaignServiceLandingURL(t *testing.T) {
	svc := NewCampaignService(newFakeCampaignRepo(), nil)

	t.Run("AllFields", func(t *testing.T) {
		got := svc.LandingURL(&campaign.Campaign{
			UTMSource:   "linkedin",
			UTMMedium:   "social",
			UTMCampaign: "spring_sale_2024",
		})
		assert.Equal(t, "/?utm_campaign=spring_sale_2024&utm_medium=social&utm_source=linkedin", got)
	})

	t.Run("EmptyFieldsOmitted", func(t *testing.T) {
		got := svc.LandingURL(&campaign.Campaign{UTMSource: "newsletter"})
		assert.Equal(t, "/?utm_source=newsletter", got)
	})

	t.Run("NoFields", func(t *testing.T) {
		assert.Equal(t, "/", svc.LandingURL(&campaign.Campaign{}))
	})
}
