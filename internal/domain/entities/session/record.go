// Package session defines the attribution session entities shared across the
// application: the per-visitor attribute set, the field vocabulary of the
// durable session record, and the cookie directive handed back to the client.
package session

import "net/http"

// Record field names. The durable record is a flat hash keyed by session id;
// a write only ever touches the fields it names.
const (
	FieldUTMSource   = "utm_source"
	FieldUTMMedium   = "utm_medium"
	FieldUTMCampaign = "utm_campaign"
	FieldUTMTerm     = "utm_term"
	FieldUTMContent  = "utm_content"

	FieldGclid   = "gclid"
	FieldFbclid  = "fbclid"
	FieldMsclkid = "msclkid"

	FieldCountry   = "country"
	FieldCity      = "city"
	FieldPathname  = "pathname"
	FieldUserAgent = "userAgent"

	FieldFirstTouch = "firstTouch"
	FieldLastSeen   = "lastSeen"
)

// UTMParams enumerates the campaign-tracking query keys read on every
// qualifying request. Keys absent from the query are omitted from the
// attribute set so a merge write cannot clobber a stored value.
var UTMParams = []string{
	FieldUTMSource,
	FieldUTMMedium,
	FieldUTMCampaign,
	FieldUTMTerm,
	FieldUTMContent,
}

// ClickIDParams enumerates ad-network click identifiers captured alongside
// the UTM set.
var ClickIDParams = []string{
	FieldGclid,
	FieldFbclid,
	FieldMsclkid,
}

// AttributeSet is a flat mapping of record field name to value. Only fields
// present on the current request appear; consumers must treat a missing key
// as "no update for this field".
type AttributeSet map[string]string

// Clone returns an independent copy of the attribute set.
func (a AttributeSet) Clone() AttributeSet {
	out := make(AttributeSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Resolution is the outcome of identity resolution for one request.
type Resolution struct {
	SessionID    string
	IsNewSession bool
}

// CookieDirective describes the session cookie to set on a first-seen
// client. It is produced at most once per session lifecycle.
type CookieDirective struct {
	Name     string
	Value    string
	MaxAge   int // seconds
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}
