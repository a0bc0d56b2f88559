package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"go.uber.org/zap"
)

// maxBodySize caps how much of a catalog response is read.
const maxBodySize = 8 << 20

// Config for the remote catalog API.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Transport TransportConfig
}

// ErrInvalidBody is returned when a 2xx response does not hold the expected
// record, e.g. the empty or null body sent for an unknown id.
var ErrInvalidBody = errors.New("invalid catalog response body")

// StatusError is returned for any non-2xx catalog response.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded %s for %s", e.Status, e.URL)
}

// IsUpstreamFailure reports whether err says the catalog itself is unwell.
// Only transport errors and 5xx responses count. Anything else describes
// the request rather than the upstream.
func IsUpstreamFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrInvalidBody) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// Client talks to the products collection and item endpoints. Every call is
// a single attempt; failures are returned, never retried.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a catalog client
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid catalog URL %q: scheme and host required", cfg.BaseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultCatalogTimeout
	}
	transportCfg := cfg.Transport
	if transportCfg == (TransportConfig{}) {
		transportCfg = DefaultTransportConfig()
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: NewTransport(transportCfg),
			Timeout:   timeout,
		},
		logger: log.With(zap.String("operation", "catalog_request")),
	}, nil
}

// ListProducts fetches the collection in the given order. The sort value is
// sent verbatim.
func (c *Client) ListProducts(ctx context.Context, sort model.SortOrder) ([]model.ProductSummary, error) {
	endpoint := c.baseURL.JoinPath(constants.CatalogProductsPath)
	query := endpoint.Query()
	query.Set(constants.QueryParamSort, sort.String())
	endpoint.RawQuery = query.Encode()

	var products []model.ProductSummary
	if err := c.getJSON(ctx, endpoint, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one full record.
func (c *Client) GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error) {
	endpoint := c.baseURL.JoinPath(constants.CatalogProductsPath, url.PathEscape(id.String()))

	var product model.Product
	if err := c.getJSON(ctx, endpoint, &product); err != nil {
		return nil, err
	}
	if product.ID == "" {
		return nil, fmt.Errorf("decode body: %w: record without id", ErrInvalidBody)
	}
	return &product, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) getJSON(ctx context.Context, endpoint *url.URL, out any) error {
	log := logger.WithContext(c.logger, ctx).With(zap.String("url", endpoint.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderUserAgent, constants.AppName+"/"+constants.AppVersion)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("Catalog request failed",
			zap.Error(err),
			zap.Duration("latency", time.Since(start)),
		)
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn("Failed to read catalog response body", zap.Error(err))
		return fmt.Errorf("read body: %w", err)
	}

	log.Info("Catalog response received",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("response_size", len(body)),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: endpoint.String()}
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		log.Warn("Catalog response body is null")
		return fmt.Errorf("decode body: %w: null", ErrInvalidBody)
	}
	if err := json.Unmarshal(body, out); err != nil {
		log.Warn("Failed to decode catalog response",
			zap.Error(err),
			zap.ByteString("response_prefix", truncate(body, 256)),
		)
		return fmt.Errorf("decode body: %w: %w", ErrInvalidBody, err)
	}

	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
