// Package campaigns provides the sqlite-backed campaign registry.
package campaigns

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anishwij/beacon-go/internal/domain/entities/campaign"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/persistence/database"
)

// Repository implements repositories.CampaignRepository over the campaign
// database.
type Repository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewRepository creates a campaign repository and ensures its schema exists.
func NewRepository(db *database.DB, logger *logging.ChanneledLogger) (*Repository, error) {
	repo := &Repository{db: db, logger: logger}
	if err := repo.ensureSchema(); err != nil {
		return nil, fmt.Errorf("campaign schema: %w", err)
	}
	return repo, nil
}

func (r *Repository) ensureSchema() error {
	query := `CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		utm_source TEXT NOT NULL,
		utm_medium TEXT NOT NULL,
		utm_campaign TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`
	_, err := r.db.Exec(query)
	return err
}

// FindByID retrieves a campaign by its id.
func (r *Repository) FindByID(ctx context.Context, id string) (*campaign.Campaign, error) {
	query := `SELECT id, name, slug, utm_source, utm_medium, utm_campaign, created_at
	          FROM campaigns WHERE id = ? LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindBySlug retrieves a campaign by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*campaign.Campaign, error) {
	query := `SELECT id, name, slug, utm_source, utm_medium, utm_campaign, created_at
	          FROM campaigns WHERE slug = ? LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// FindAll returns every campaign ordered by creation time.
func (r *Repository) FindAll(ctx context.Context) ([]*campaign.Campaign, error) {
	query := `SELECT id, name, slug, utm_source, utm_medium, utm_campaign, created_at
	          FROM campaigns ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var result []*campaign.Campaign
	for rows.Next() {
		var c campaign.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.UTMSource, &c.UTMMedium, &c.UTMCampaign, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

// Store inserts a new campaign record.
func (r *Repository) Store(ctx context.Context, c *campaign.Campaign) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO campaigns (id, name, slug, utm_source, utm_medium, utm_campaign, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.UTMSource, c.UTMMedium, c.UTMCampaign, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store campaign: %w", err)
	}

	if r.logger != nil {
		r.logger.Campaign().Info("Campaign stored", "id", c.ID, "slug", c.Slug)
	}
	return nil
}

func (r *Repository) scanOne(row *sql.Row) (*campaign.Campaign, error) {
	var c campaign.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.UTMSource, &c.UTMMedium, &c.UTMCampaign, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	return &c, nil
}
