// Package analytics provides the server-side Meta Conversions API client.
package analytics

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anishwij/beacon-go/internal/domain/entities/session"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/monitoring"
)

// MetaClient dispatches conversion events to the Meta Conversions API.
// Pixel id and access token arrive as opaque constructor parameters from the
// configuration layer; when either is empty the client is disabled and every
// send is a no-op.
type MetaClient struct {
	pixelID     string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *logging.ChanneledLogger
	metrics     *monitoring.Metrics
}

// NewMetaClient creates a Meta Conversions API client.
func NewMetaClient(pixelID, accessToken, apiVersion string, logger *logging.ChanneledLogger, metrics *monitoring.Metrics) *MetaClient {
	enabled := pixelID != "" && accessToken != ""
	if logger != nil {
		logger.System().Info("Meta conversions client initialized", "enabled", enabled)
	}

	return &MetaClient{
		pixelID:     pixelID,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		logger:      logger,
		metrics:     metrics,
	}
}

// Enabled reports whether the client has credentials to send events.
func (m *MetaClient) Enabled() bool {
	return m.pixelID != "" && m.accessToken != ""
}

type metaEvent struct {
	EventName  string         `json:"event_name"`
	EventTime  int64          `json:"event_time"`
	EventID    string         `json:"event_id"`
	SourceURL  string         `json:"event_source_url,omitempty"`
	UserData   map[string]any `json:"user_data"`
	CustomData map[string]any `json:"custom_data,omitempty"`
}

type metaPayload struct {
	Data []metaEvent `json:"data"`
}

// SendPageView dispatches a PageView event for a session. Failures are
// logged and counted, never returned to the attribution path.
func (m *MetaClient) SendPageView(ctx context.Context, sessionID string, attrs session.AttributeSet) {
	if !m.Enabled() {
		return
	}

	event := metaEvent{
		EventName: "PageView",
		EventTime: time.Now().UTC().Unix(),
		EventID:   sessionID,
		UserData: map[string]any{
			"external_id": HashForMeta(sessionID),
		},
		CustomData: map[string]any{},
	}

	if ua, ok := attrs[session.FieldUserAgent]; ok {
		event.UserData["client_user_agent"] = ua
	}
	for _, key := range session.UTMParams {
		if v, ok := attrs[key]; ok {
			event.CustomData[key] = v
		}
	}
	if path, ok := attrs[session.FieldPathname]; ok {
		event.SourceURL = path
	}

	if err := m.send(ctx, metaPayload{Data: []metaEvent{event}}); err != nil {
		if m.logger != nil {
			m.logger.Attribution().Warn("Meta conversion event failed", "error", err.Error())
		}
		if m.metrics != nil {
			m.metrics.ConversionEvents.WithLabelValues("error").Inc()
		}
		return
	}

	if m.metrics != nil {
		m.metrics.ConversionEvents.WithLabelValues("ok").Inc()
	}
}

func (m *MetaClient) send(ctx context.Context, payload metaPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal meta payload: %w", err)
	}

	url := fmt.Sprintf("https://graph.facebook.com/%s/%s/events?access_token=%s",
		m.apiVersion, m.pixelID, m.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build meta request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("meta request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("meta API returned status %d", resp.StatusCode)
	}
	return nil
}

// HashForMeta normalizes and sha256-hashes a user identifier the way the
// Conversions API expects: lowercased, trimmed, hex encoded. Empty input
// returns an empty string.
func HashForMeta(value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}
