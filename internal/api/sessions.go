package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"interview-runtime/internal/interview"
	"interview-runtime/internal/metrics"
)

const sessionsPath = "/api/interview-sessions/get-sessions/"

// Envelope is the response wrapper of the sessions API.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

// APIError is a non-success response from the sessions API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sessions API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("sessions API error: status %d: %s", e.StatusCode, e.Message)
}

// SessionClient fetches session definitions over HTTP.
type SessionClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a SessionClient.
type Option func(*SessionClient)

func WithToken(token string) Option {
	return func(c *SessionClient) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *SessionClient) { c.client = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *SessionClient) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *SessionClient) { c.metrics = m }
}

func NewSessionClient(baseURL string, timeout time.Duration, opts ...Option) *SessionClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &SessionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log:     zap.NewNop(),
		metrics: metrics.NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSession implements runtime.Fetcher. A 404 is reported as
// interview.ErrSessionNotFound.
func (c *SessionClient) FetchSession(ctx context.Context, id string) (*interview.Session, error) {
	endpoint := c.baseURL + sessionsPath + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.IncrementFetchCall(false)
		return nil, fmt.Errorf("request session %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncrementFetchCall(false)
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("Fetched session",
		zap.String("session_id", id),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	var envelope Envelope
	decodeErr := json.Unmarshal(body, &envelope)

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.IncrementFetchCall(true)
		return nil, fmt.Errorf("session %s: %w", id, interview.ErrSessionNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.IncrementFetchCall(false)
		msg := envelope.Message
		if decodeErr != nil {
			msg = strings.TrimSpace(string(body))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		c.metrics.IncrementFetchCall(false)
		return nil, fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		c.metrics.IncrementFetchCall(true)
		return nil, fmt.Errorf("session %s: %w", id, interview.ErrSessionNotFound)
	}

	var session interview.Session
	if err := json.Unmarshal(envelope.Data, &session); err != nil {
		c.metrics.IncrementFetchCall(false)
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if err := interview.Validate(&session); err != nil {
		c.metrics.IncrementFetchCall(false)
		return nil, fmt.Errorf("invalid session %s: %w", id, err)
	}

	c.metrics.IncrementFetchCall(true)
	return &session, nil
}
