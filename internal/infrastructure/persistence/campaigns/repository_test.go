package campaigns

import (
	"context"
	"testing"

	"github.com/anishwij/beacon-go/internal/domain/entities/campaign"
	"github.com/anishwij/beacon-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db, nil)
	require.NoError(t, err)
	return repo
}

func TestRepositoryStoreAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	c := &campaign.Campaign{
		ID:          "01HTEST0000000000000000000",
		Name:        "Spring Sale",
		Slug:        "spring-sale",
		UTMSource:   "linkedin",
		UTMMedium:   "social",
		UTMCampaign: "spring_sale_2024",
	}
	require.NoError(t, repo.Store(ctx, c))

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Spring Sale", got.Name)
		assert.Equal(t, "linkedin", got.UTMSource)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("FindBySlug", func(t *testing.T) {
		got, err := repo.FindBySlug(ctx, "spring-sale")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, c.ID, got.ID)
	})

	t.Run("MissingReturnsNil", func(t *testing.T) {
		got, err := repo.FindByID(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.FindBySlug(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRepositoryFindAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, repo.Store(ctx, &campaign.Campaign{
		ID: "a", Name: "A", Slug: "a", UTMSource: "linkedin",
	}))
	require.NoError(t, repo.Store(ctx, &campaign.Campaign{
		ID: "b", Name: "B", Slug: "b", UTMSource: "google",
	}))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryUniqueSlug(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Store(ctx, &campaign.Campaign{
		ID: "a", Name: "A", Slug: "dup", UTMSource: "linkedin",
	}))
	err := repo.Store(ctx, &campaign.Campaign{
		ID: "b", Name: "B", Slug: "dup", UTMSource: "google",
	})
	assert.Error(t, err)
}
