package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const userAgent = "catalog-mirror/1.0"

// Client defines the read operations the reconciliation engine needs from the remote catalog.
type Client interface {
	// ListArtists returns one page of the account's artists.
	ListArtists(ctx context.Context, page int) (*ArtistPage, error)
	// ListOffers returns one page of offers for an artist.
	ListOffers(ctx context.Context, artistID int64, page int) (*OfferPage, error)
	// ListOrders returns one page of orders.
	ListOrders(ctx context.Context, page int) (*OrderPage, error)
	// GetSkus returns the stock keeping units of a campaign.
	GetSkus(ctx context.Context, campaignID string) (*SkuResult, error)
	// CheckAuth probes the API with the configured credentials.
	CheckAuth(ctx context.Context) error
}

type httpClient struct {
	cfg    Config
	http   *http.Client
	retry  RetryConfig
	logger *zap.Logger
}

// NewClient creates an HTTP client for the remote catalog API.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid remote base url %q", cfg.BaseURL)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &httpClient{
		cfg:    cfg,
		http:   &http.Client{Transport: transport, Timeout: timeoutDuration},
		retry:  RetryConfig{MaxAttempts: cfg.MaxAttempts, InitialWait: time.Duration(cfg.BackoffMs) * time.Millisecond},
		logger: logger,
	}, nil
}

func (c *httpClient) ListArtists(ctx context.Context, page int) (*ArtistPage, error) {
	var out ArtistPage
	if err := c.get(ctx, "artist", url.Values{"page": {strconv.Itoa(page)}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) ListOffers(ctx context.Context, artistID int64, page int) (*OfferPage, error) {
	q := url.Values{
		"artist_id": {strconv.FormatInt(artistID, 10)},
		"page":      {strconv.Itoa(page)},
	}
	if c.cfg.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	}
	var out OfferPage
	if err := c.get(ctx, "offers", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) ListOrders(ctx context.Context, page int) (*OrderPage, error) {
	var out OrderPage
	if err := c.get(ctx, "order", url.Values{"page": {strconv.Itoa(page)}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) GetSkus(ctx context.Context, campaignID string) (*SkuResult, error) {
	var out SkuResult
	if err := c.get(ctx, "sku", url.Values{"campaign_id": {campaignID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) CheckAuth(ctx context.Context) error {
	var out ArtistPage
	return c.get(ctx, "artist", nil, &out)
}

func (c *httpClient) endpoint(path string, q url.Values) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	target := c.endpoint(path, q)

	_, err := RetryWithBackoff(ctx, c.retry, func() (struct{}, error) {
		return struct{}{}, c.do(ctx, target, out)
	}, func(attempt int, wait time.Duration, err error) {
		c.logger.Warn("Remote request failed, retrying",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	return err
}

func (c *httpClient) do(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &APIError{Detail: "failed to create request", URL: target, Err: err}
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.ApiKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Detail: err.Error(), URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Detail: statusDetail(resp.StatusCode), URL: target}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Detail: "failed to read response", URL: target, Err: err}
	}

	// Some failures come back as 200 with an error body.
	var envelope struct {
		ErrorDetail string `json:"error_detail"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.ErrorDetail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: envelope.ErrorDetail, URL: target}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Detail: "failed to decode response", URL: target, Err: err}
	}
	return nil
}
