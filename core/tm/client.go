package tm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/normalize"

	"go.uber.org/zap"
)

const (
	setFreightOrders = "SearchFOSet"
	setEnrichments   = "SkyPlusFieldsSet"
	setEvents        = "EventsReportingSet"
	setDelays        = "DelaySet"
	setProofs        = "ProofOfDeliverySet"
	setUnloading     = "UnloadingSet"

	maxErrorBody = 64 * 1024
)

// Client talks to the TM OData service.
type Client struct {
	baseURL   string
	sapClient string
	auth      string
	http      *http.Client
	logger    *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a TM client from the configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		sapClient: strings.TrimSpace(cfg.SAPClient),
		auth:      basicAuth(cfg),
		http:      &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func basicAuth(cfg Config) string {
	if cfg.Basic != "" {
		return "Basic " + cfg.Basic
	}
	if cfg.Username == "" && cfg.Password == "" {
		return ""
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.Username+":"+cfg.Password))
}

// FetchFreightOrders returns every freight order in SearchFOSet.
func (c *Client) FetchFreightOrders(ctx context.Context) ([]FreightOrder, error) {
	const op = "TM fetch freight orders"
	body, err := c.get(ctx, op, setFreightOrders, "")
	if err != nil {
		return nil, err
	}
	orders, err := decodeFeed[FreightOrder](c, op, body)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchEnrichments returns every row of SkyPlusFieldsSet.
func (c *Client) FetchEnrichments(ctx context.Context) ([]Enrichment, error) {
	const op = "TM fetch enrichments"
	body, err := c.get(ctx, op, setEnrichments, "")
	if err != nil {
		return nil, err
	}
	rows, err := decodeFeed[Enrichment](c, op, body)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchEnrichment returns the enrichment row of one order, or nil when TM has none.
func (c *Client) FetchEnrichment(ctx context.Context, foID normalize.PaddedID) (*Enrichment, error) {
	const op = "TM fetch enrichment"
	body, err := c.get(ctx, op, setEnrichments, foIDFilter(foID))
	if err != nil {
		return nil, err
	}
	rows, err := decodeFeed[Enrichment](c, op, body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FetchOrderEvents returns the reported events of one order.
func (c *Client) FetchOrderEvents(ctx context.Context, foID normalize.PaddedID) ([]ReportedEvent, error) {
	const op = "TM fetch events"
	body, err := c.get(ctx, op, setEvents, foIDFilter(foID))
	if err != nil {
		return nil, err
	}
	events, err := decodeFeed[ReportedEvent](c, op, body)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// PostEvent forwards a SKY event.
func (c *Client) PostEvent(ctx context.Context, s EventSubmission) (json.RawMessage, error) {
	return c.post(ctx, "TM EVENT", setEvents, s)
}

// PostDelay forwards a delay report.
func (c *Client) PostDelay(ctx context.Context, s DelaySubmission) (json.RawMessage, error) {
	return c.post(ctx, "TM Delay", setDelays, s)
}

// PostProofOfDelivery forwards a proof of delivery.
func (c *Client) PostProofOfDelivery(ctx context.Context, s ProofOfDeliverySubmission) (json.RawMessage, error) {
	return c.post(ctx, "TM POD", setProofs, s)
}

// PostUnloading forwards an unloading report.
func (c *Client) PostUnloading(ctx context.Context, s UnloadingSubmission) (json.RawMessage, error) {
	return c.post(ctx, "TM Unloading", setUnloading, s)
}

func foIDFilter(foID normalize.PaddedID) string {
	return fmt.Sprintf("FoId eq '%s'", strings.ReplaceAll(foID.String(), "'", "''"))
}

func (c *Client) url(set string, query url.Values) string {
	u := c.baseURL + "/" + set
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (c *Client) get(ctx context.Context, op, set, filter string) ([]byte, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("$filter", filter)
	}
	query.Set("$format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(set, query), nil)
	if err != nil {
		return nil, &apperr.UpstreamError{Op: op, Err: err}
	}
	c.setAuth(req)
	req.Header.Set("Accept", "application/json")

	return c.do(op, req)
}

func (c *Client) post(ctx context.Context, op, set string, payload any) (json.RawMessage, error) {
	sess, err := c.fetchSession(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &apperr.UpstreamError{Op: op, Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(set, c.clientQuery()), bytes.NewReader(body))
	if err != nil {
		return nil, &apperr.UpstreamError{Op: op, Err: err}
	}
	c.setAuth(req)
	sess.apply(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	respBody, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	return unwrap(respBody), nil
}

func (c *Client) clientQuery() url.Values {
	query := url.Values{}
	if c.sapClient != "" {
		query.Set("sap-client", c.sapClient)
	}
	return query
}

func (c *Client) setAuth(req *http.Request) {
	if c.auth != "" {
		req.Header.Set("Authorization", c.auth)
	}
}

// decodeFeed decodes a collection response. Undecodable rows are logged and
// dropped; the rest of the feed is kept.
func decodeFeed[T any](c *Client, op string, body []byte) ([]T, error) {
	rows, bad, err := decodeResults[T](body)
	if err != nil {
		return nil, &apperr.UpstreamError{Op: op, Err: err}
	}
	for _, rowErr := range bad {
		c.logger.Warn("Skipped undecodable TM row",
			zap.String("op", op),
			zap.Int("row", rowErr.Index),
			zap.Error(rowErr.Err))
	}
	return rows, nil
}

// do executes the request and maps failures to UpstreamError.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("TM request failed", zap.String("op", op), zap.Error(err))
		return nil, &apperr.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.UpstreamError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("TM request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &apperr.UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
