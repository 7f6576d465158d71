// Package repositories defines the repository interfaces for attribution
// entities. These abstract the persistence details so the application core
// stays decoupled from the key-value store and the campaign database.
package repositories

import (
	"context"

	"github.com/anishwij/beacon-go/internal/domain/entities/campaign"
	"github.com/anishwij/beacon-go/internal/domain/entities/session"
)

// AttributionStore persists session attribution records in a hash-per-key
// store. Upsert must be a per-field merge: fields absent from attrs are left
// untouched on an existing record, and replaying the same write is
// idempotent. Implementations must not read-modify-write.
type AttributionStore interface {
	Upsert(ctx context.Context, sessionID string, attrs session.AttributeSet) error
	Get(ctx context.Context, sessionID string) (session.AttributeSet, bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// CampaignRepository persists the synthetic campaign registry.
type CampaignRepository interface {
	FindByID(ctx context.Context, id string) (*campaign.Campaign, error)
	FindBySlug(ctx context.Context, slug string) (*campaign.Campaign, error)
	FindAll(ctx context.Context) ([]*campaign.Campaign, error)
	Store(ctx context.Context, c *campaign.Campaign) error
}
