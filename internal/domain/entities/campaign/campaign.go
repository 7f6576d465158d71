// Package campaign defines the synthetic campaign entity used by the
// developer-facing campaign picker.
package campaign

import "time"

// Campaign is a named UTM preset. Selecting one on the dev page produces a
// landing URL tagged with its UTM fields.
type Campaign struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	UTMSource   string    `json:"utmSource"`
	UTMMedium   string    `json:"utmMedium"`
	UTMCampaign string    `json:"utmCampaign"`
	CreatedAt   time.Time `json:"createdAt"`
}
