package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/anishwij/beacon-go/internal/domain/entities/session"
	"github.com/anishwij/beacon-go/internal/infrastructure/persistence/attribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAttributionConfig() AttributionConfig {
	return AttributionConfig{
		CookieName:       "sessionId",
		IDPrefix:         "sess:",
		TokenLength:      21,
		CookieMaxAge:     24 * time.Hour,
		GeoCountryHeader: "X-Vercel-IP-Country",
		GeoCityHeader:    "X-Vercel-IP-City",
		GeoFallback:      "DEV",
		WriteTimeout:     250 * time.Millisecond,
	}
}

func newTestService(t *testing.T) (*AttributionService, *attribution.MemoryStore) {
	t.Helper()
	store := attribution.NewMemoryStore(0, nil)
	svc := NewAttributionService(testAttributionConfig(), store, nil, nil)
	return svc, store
}

func TestAttributionServiceResolve(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("NoCookieMintsNewSession", func(t *testing.T) {
		res := svc.Resolve("")
		assert.True(t, res.IsNewSession)
		assert.True(t, strings.HasPrefix(res.SessionID, "sess:"))
		assert.Len(t, res.SessionID, len("sess:")+21)
	})

	t.Run("CookieValueTakenVerbatim", func(t *testing.T) {
		res := svc.Resolve("sess:abc123")
		assert.False(t, res.IsNewSession)
		assert.Equal(t, "sess:abc123", res.SessionID)
	})

	t.Run("DistinctIDsAcrossRequests", func(t *testing.T) {
		a := svc.Resolve("")
		b := svc.Resolve("")
		assert.NotEqual(t, a.SessionID, b.SessionID)
	})
}

func TestAttributionServiceExtract(t *testing.T) {
	svc, _ := newTestService(t)
	fixed := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	t.Run("CapturesUTMAndClickIDs", func(t *testing.T) {
		u, err := url.Parse("/?utm_source=linkedin&utm_medium=social&utm_campaign=spring_sale_2024&gclid=xyz")
		require.NoError(t, err)

		attrs := svc.Extract(u, http.Header{})
		assert.Equal(t, "linkedin", attrs[session.FieldUTMSource])
		assert.Equal(t, "social", attrs[session.FieldUTMMedium])
		assert.Equal(t, "spring_sale_2024", attrs[session.FieldUTMCampaign])
		assert.Equal(t, "xyz", attrs[session.FieldGclid])
	})

	t.Run("OmitsAbsentAndEmptyParams", func(t *testing.T) {
		u, err := url.Parse("/?utm_source=linkedin&utm_term=")
		require.NoError(t, err)

		attrs := svc.Extract(u, http.Header{})
		_, hasTerm := attrs[session.FieldUTMTerm]
		_, hasMedium := attrs[session.FieldUTMMedium]
		assert.False(t, hasTerm)
		assert.False(t, hasMedium)
	})

	t.Run("GeoHeadersWithFallback", func(t *testing.T) {
		u, _ := url.Parse("/about")

		headers := http.Header{}
		headers.Set("X-Vercel-IP-Country", "NL")
		attrs := svc.Extract(u, headers)
		assert.Equal(t, "NL", attrs[session.FieldCountry])
		assert.Equal(t, "DEV", attrs[session.FieldCity])

		attrs = svc.Extract(u, http.Header{})
		assert.Equal(t, "DEV", attrs[session.FieldCountry])
		assert.Equal(t, "DEV", attrs[session.FieldCity])
	})

	t.Run("PathAlwaysUserAgentWhenPresent", func(t *testing.T) {
		u, _ := url.Parse("/pricing")

		attrs := svc.Extract(u, http.Header{})
		assert.Equal(t, "/pricing", attrs[session.FieldPathname])
		_, hasUA := attrs[session.FieldUserAgent]
		assert.False(t, hasUA)

		headers := http.Header{}
		headers.Set("User-Agent", "Mozilla/5.0")
		attrs = svc.Extract(u, headers)
		assert.Equal(t, "Mozilla/5.0", attrs[session.FieldUserAgent])
	})

	t.Run("TouchTimestampsMatch", func(t *testing.T) {
		u, _ := url.Parse("/")
		attrs := svc.Extract(u, http.Header{})

		want := strconv.FormatInt(fixed.UnixMilli(), 10)
		assert.Equal(t, want, attrs[session.FieldFirstTouch])
		assert.Equal(t, want, attrs[session.FieldLastSeen])
	})
}

func TestAttributionServiceCapture(t *testing.T) {
	t.Run("WritesMergeIntoStore", func(t *testing.T) {
		svc, store := newTestService(t)
		ctx := context.Background()

		svc.Capture(ctx, "sess:one", session.AttributeSet{session.FieldUTMSource: "linkedin"})
		svc.Capture(ctx, "sess:one", session.AttributeSet{session.FieldUTMMedium: "social"})

		attrs, found, err := store.Get(ctx, "sess:one")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "linkedin", attrs[session.FieldUTMSource])
		assert.Equal(t, "social", attrs[session.FieldUTMMedium])
	})

	t.Run("StoreFailureDoesNotPanicOrPropagate", func(t *testing.T) {
		svc := NewAttributionService(testAttributionConfig(), failingStore{}, nil, nil)
		svc.Capture(context.Background(), "sess:two", session.AttributeSet{session.FieldUTMSource: "linkedin"})
	})
}

func TestAttributionServiceIssueCookie(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("NewSessionGetsDirective", func(t *testing.T) {
		directive := svc.IssueCookie(session.Resolution{SessionID: "sess:new", IsNewSession: true})
		require.NotNil(t, directive)
		assert.Equal(t, "sessionId", directive.Name)
		assert.Equal(t, "sess:new", directive.Value)
		assert.Equal(t, 86400, directive.MaxAge)
		assert.Equal(t, "/", directive.Path)
		assert.True(t, directive.HTTPOnly)
		assert.Equal(t, http.SameSiteLaxMode, directive.SameSite)
	})

	t.Run("ExistingSessionGetsNothing", func(t *testing.T) {
		directive := svc.IssueCookie(session.Resolution{SessionID: "sess:old", IsNewSession: false})
		assert.Nil(t, directive)
	})
}

type failingStore struct{}

func (failingStore) Upsert(context.Context, string, session.AttributeSet) error {
	return errors.New("store unavailable")
}

func (failingStore) Get(context.Context, string) (session.AttributeSet, bool, error) {
	return nil, false, errors.New("store unavailable")
}

func (failingStore) Ping(context.Context) error { return errors.New("store unavailable") }
func (failingStore) Close() error               { return nil }
