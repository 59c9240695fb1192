// Package backend implements the request forwarder: it translates typed
// operation arguments into single HTTP calls against the ad-serving API and
// normalizes every outcome into a result envelope.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"adte.com/adte/tv-agent/internal/api"
)

// HTTPDoer executes a single HTTP request. The indirection keeps the
// forwarder testable without a live backend.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client forwards operation requests to the backend ad-serving API. The
// base address is injected at construction time; the client holds no other
// state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

// New creates a forwarder for the given backend base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// Timeouts are applied per call from the request descriptor, so
		// the client itself carries none.
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executes one descriptor and returns the raw response body. Failures
// are limited to three kinds: transport errors from the HTTP client,
// *StatusError for non-2xx responses, and request-construction errors for
// unusable passthrough targets.
func (c *Client) do(ctx context.Context, r *Request) ([]byte, error) {
	target := r.URL
	if target == "" {
		target = c.baseURL + r.Path
	}

	var bodyReader io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = lookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, r.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if len(r.Query) > 0 {
		q := req.URL.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.String(),
		}
	}
	return body, nil
}

// fetch executes a descriptor and decodes the JSON body.
func (c *Client) fetch(ctx context.Context, r *Request) (api.Result, error) {
	body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	var out api.Result
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Raw: body, Err: err}
	}
	return out, nil
}

// --- ADCP task operations (protocol-tagged error envelope) ---

// GetProducts discovers media inventory from a natural-language query.
func (c *Client) GetProducts(ctx context.Context, q api.ProductQuery) api.Result {
	res, err := c.fetch(ctx, BuildProducts(q))
	if err != nil {
		return api.Failed("Product discovery error", err)
	}
	return res
}

// CreateMediaBuy purchases the given packages as a new campaign. The call
// carries no idempotency key: a duplicate call books a duplicate campaign.
func (c *Client) CreateMediaBuy(ctx context.Context, o api.MediaBuyOrder) api.Result {
	res, err := c.fetch(ctx, BuildMediaBuy(o))
	if err != nil {
		return api.Failed("Media buy creation error", err)
	}
	return res
}

// GetMediaBuyDelivery reports real-time delivery metrics for a campaign.
func (c *Client) GetMediaBuyDelivery(ctx context.Context, l api.DeliveryLookup) api.Result {
	res, err := c.fetch(ctx, BuildDelivery(l))
	if err != nil {
		return api.Failed("Delivery data error", err)
	}
	return res
}

// DiscoverSignals finds audience and contextual signals for a query.
func (c *Client) DiscoverSignals(ctx context.Context, q api.SignalQuery) api.Result {
	res, err := c.fetch(ctx, BuildSignals(q))
	if err != nil {
		return api.Failed("Signal discovery error", err)
	}
	return res
}

// ActivateSignal pushes a discovered signal to decisioning platforms.
func (c *Client) ActivateSignal(ctx context.Context, a api.SignalActivation) api.Result {
	res, err := c.fetch(ctx, BuildActivateSignal(a))
	if err != nil {
		return api.Failed("Signal activation error", err)
	}
	return res
}

// SyncCreatives uploads creative assets and assigns them to a campaign.
func (c *Client) SyncCreatives(ctx context.Context, s api.CreativeSync) api.Result {
	res, err := c.fetch(ctx, BuildSyncCreatives(s))
	if err != nil {
		return api.Failed("Creative sync error", err)
	}
	return res
}

// GetProperties returns the publisher-owned TV property catalog.
func (c *Client) GetProperties(ctx context.Context, f api.PropertyFilter) api.Result {
	res, err := c.fetch(ctx, BuildProperties(f))
	if err != nil {
		return api.Failed("Property discovery error", err)
	}
	return res
}

// --- Legacy operations (bare error envelope) ---

// GetChannels returns the channel list.
func (c *Client) GetChannels(ctx context.Context) api.Result {
	res, err := c.fetch(ctx, BuildChannels())
	if err != nil {
		return api.Error(err)
	}
	return res
}

// GetSchedule returns the EPG program schedule for a channel and date.
func (c *Client) GetSchedule(ctx context.Context, f api.ScheduleFilter) api.Result {
	res, err := c.fetch(ctx, BuildSchedule(f))
	if err != nil {
		return api.Error(err)
	}
	return res
}

// GetAdBreaks returns ad breaks, optionally filtered by availability.
func (c *Client) GetAdBreaks(ctx context.Context, f api.AdBreakFilter) api.Result {
	res, err := c.fetch(ctx, BuildAdBreaks(f))
	if err != nil {
		return api.Error(err)
	}
	return res
}

// GetInventory returns detailed inventory with pricing and audience data.
func (c *Client) GetInventory(ctx context.Context, f api.InventoryFilter) api.Result {
	res, err := c.fetch(ctx, BuildInventory(f))
	if err != nil {
		return api.Error(err)
	}
	return res
}

// BookAd marks a single ad break as sold.
func (c *Client) BookAd(ctx context.Context, b api.Booking) api.Result {
	res, err := c.fetch(ctx, BuildBooking(b))
	if err != nil {
		return api.Error(err)
	}
	return res
}

// CallAPI performs the generic passthrough call. A body that is not a JSON
// object comes back as {"text": raw}; everything else follows the bare
// error envelope rules.
func (c *Client) CallAPI(ctx context.Context, call api.APICall) api.Result {
	body, err := c.do(ctx, BuildCall(call))
	if err != nil {
		return api.Error(err)
	}
	var out api.Result
	if err := json.Unmarshal(body, &out); err != nil {
		return api.Text(string(body))
	}
	return out
}
