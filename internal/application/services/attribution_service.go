// Package services provides application-level orchestration services
package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/anishwij/beacon-go/internal/domain/entities/session"
	"github.com/anishwij/beacon-go/internal/domain/repositories"
	"github.com/anishwij/beacon-go/internal/infrastructure/analytics"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/monitoring"
	"github.com/anishwij/beacon-go/internal/infrastructure/security"
)

// AttributionConfig carries the session and capture settings the service
// needs. Values come from pkg/config at startup; nothing here is read from
// the environment directly.
type AttributionConfig struct {
	CookieName       string
	IDPrefix         string
	TokenLength      int
	CookieMaxAge     time.Duration
	SecureCookies    bool
	GeoCountryHeader string
	GeoCityHeader    string
	GeoFallback      string
	WriteTimeout     time.Duration
}

// AttributionService implements the attribution capture pipeline: identity
// resolution, attribute extraction, the store write, and cookie issuance.
// The request interceptor sequences these per request.
type AttributionService struct {
	config  AttributionConfig
	store   repositories.AttributionStore
	logger  *logging.ChanneledLogger
	metrics *monitoring.Metrics
	meta    *analytics.MetaClient
	now     func() time.Time
}

// NewAttributionService creates an attribution service with an injected
// store client.
func NewAttributionService(config AttributionConfig, store repositories.AttributionStore, logger *logging.ChanneledLogger, metrics *monitoring.Metrics) *AttributionService {
	return &AttributionService{
		config:  config,
		store:   store,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Resolve determines the session identity for a request. A non-empty cookie
// value is taken verbatim as the existing identity; anything else mints a
// fresh prefixed identifier. Resolution always succeeds.
func (s *AttributionService) Resolve(cookieValue string) session.Resolution {
	if cookieValue != "" {
		return session.Resolution{SessionID: cookieValue, IsNewSession: false}
	}

	id, err := security.GenerateSessionID(s.config.IDPrefix, s.config.TokenLength)
	if err != nil {
		// crypto/rand failure is effectively unreachable; fall back to a
		// ULID-based id so resolution still cannot fail the request.
		id = s.config.IDPrefix + security.GenerateULID()
		if s.logger != nil {
			s.logger.Attribution().Warn("Secure token generation failed, using ULID fallback", "error", err.Error())
		}
	}

	return session.Resolution{SessionID: id, IsNewSession: true}
}

// Extract reads the campaign attributes of one request: the enumerated UTM
// and click-id query keys (present and non-empty only), geolocation headers
// with a sentinel fallback, the verbatim user-agent, the request path, and
// the touch timestamps. Extraction is best-effort and never errors.
func (s *AttributionService) Extract(u *url.URL, headers http.Header) session.AttributeSet {
	attrs := make(session.AttributeSet)

	query := u.Query()
	for _, key := range session.UTMParams {
		if value := query.Get(key); value != "" {
			attrs[key] = value
		}
	}
	for _, key := range session.ClickIDParams {
		if value := query.Get(key); value != "" {
			attrs[key] = value
		}
	}

	attrs[session.FieldCountry] = s.geoValue(headers, s.config.GeoCountryHeader)
	attrs[session.FieldCity] = s.geoValue(headers, s.config.GeoCityHeader)

	attrs[session.FieldPathname] = u.Path
	if ua := headers.Get("User-Agent"); ua != "" {
		attrs[session.FieldUserAgent] = ua
	}

	ts := strconv.FormatInt(s.now().UTC().UnixMilli(), 10)
	attrs[session.FieldFirstTouch] = ts
	attrs[session.FieldLastSeen] = ts

	return attrs
}

func (s *AttributionService) geoValue(headers http.Header, name string) string {
	if value := headers.Get(name); value != "" {
		return value
	}
	return s.config.GeoFallback
}

// Capture merges the extracted attributes into the session record. The write
// runs under its own deadline so a degraded store adds at most
// WriteTimeout to the response; failure is logged and counted, never
// propagated to the caller's response.
func (s *AttributionService) Capture(ctx context.Context, sessionID string, attrs session.AttributeSet) {
	start := time.Now()

	writeCtx := ctx
	if s.config.WriteTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, s.config.WriteTimeout)
		defer cancel()
	}

	err := s.store.Upsert(writeCtx, sessionID, attrs)
	duration := time.Since(start)

	if s.logger != nil {
		s.logger.LogStoreWrite(sessionID, len(attrs), duration, err)
	}
	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.StoreWrites.WithLabelValues(status).Inc()
		s.metrics.StoreWriteDuration.Observe(duration.Seconds())
	}
}

// SetMetaClient attaches an optional Meta Conversions API client. New
// sessions then emit a server-side PageView event.
func (s *AttributionService) SetMetaClient(meta *analytics.MetaClient) {
	s.meta = meta
}

// NotifyNewSession dispatches conversion events for a first-seen session.
// The dispatch is fire-and-forget; it runs on its own context so it cannot
// delay or fail the response.
func (s *AttributionService) NotifyNewSession(sessionID string, attrs session.AttributeSet) {
	if s.meta == nil || !s.meta.Enabled() {
		return
	}

	snapshot := attrs.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.meta.SendPageView(ctx, sessionID, snapshot)
	}()
}

// Lookup returns the stored attribution record for a session id.
func (s *AttributionService) Lookup(ctx context.Context, sessionID string) (session.AttributeSet, bool, error) {
	return s.store.Get(ctx, sessionID)
}

// IssueCookie produces the cookie directive for a resolution. Only a new
// session gets one; an existing session's cookie is never reissued or
// extended.
func (s *AttributionService) IssueCookie(res session.Resolution) *session.CookieDirective {
	if !res.IsNewSession {
		return nil
	}

	return &session.CookieDirective{
		Name:     s.config.CookieName,
		Value:    res.SessionID,
		MaxAge:   int(s.config.CookieMaxAge.Seconds()),
		Path:     "/",
		Secure:   s.config.SecureCookies,
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieName returns the configured session cookie name.
func (s *AttributionService) CookieName() string {
	return s.config.CookieName
}
