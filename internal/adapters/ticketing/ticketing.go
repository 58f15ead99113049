// Package ticketing pulls event listings from a ticketing discovery API.
// Responses are parsed tolerantly: listings with missing optional fields
// are kept, only entries without a usable identity are dropped.
package ticketing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

const (
	// SourceName tags every event pulled through this adapter.
	SourceName = "ticketmaster"

	defaultBaseURL = "https://app.ticketmaster.com/discovery/v2"
	defaultTimeout = 15 * time.Second
	defaultSize    = 100

	// The discovery API caps free keys at 5 requests per second.
	defaultRequestsPerSecond = 5

	// broadKeyword replaces the caller's keyword on the retry pass.
	broadKeyword = "music"
)

// ErrMissingAPIKey indicates no API key was configured.
var ErrMissingAPIKey = errors.New("ticketing API key is not configured")

// Query narrows a listing search. Zero values mean "no constraint" except
// Size, which defaults to 100.
type Query struct {
	City           string
	Lat, Lon       float64
	RadiusKm       int
	Keyword        string
	Classification string
	Size           int
}

// Client queries the discovery API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Client) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithBaseURL overrides the API base URL, for tests and proxies.
func WithBaseURL(u string) Option {
	return func(t *Client) {
		if u != "" {
			t.baseURL = u
		}
	}
}

// WithRateLimit overrides the request rate ceiling.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(t *Client) {
		if requestsPerSecond > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Client) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a Client. The API key is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		logger:     logger.Get().Named("ticketing"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search returns the listings matching the query. A transient upstream
// failure triggers exactly one retry with a single broad keyword and no
// classification filter; a second failure is returned to the caller.
func (c *Client) Search(ctx context.Context, q Query) ([]model.Event, error) {
	events, err := c.fetch(ctx, q)
	if err == nil {
		return events, nil
	}
	if !isTransient(err) {
		return nil, err
	}

	c.logger.Warn(ctx, "listing search failed, retrying with broadened query",
		logger.String("keyword", q.Keyword), logger.Error(err))
	broad := q
	broad.Keyword = broadKeyword
	broad.Classification = ""
	events, retryErr := c.fetch(ctx, broad)
	if retryErr != nil {
		return nil, fmt.Errorf("broadened retry failed: %w (original: %v)", retryErr, err)
	}
	return events, nil
}

func (c *Client) fetch(ctx context.Context, q Query) ([]model.Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(q), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		statusErr := fmt.Errorf("discovery API returned %s", resp.Status)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, &transientError{err: statusErr}
		}
		return nil, statusErr
	}

	var payload discoveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding discovery response: %w", err)
	}

	events := make([]model.Event, 0, len(payload.Embedded.Events))
	for _, raw := range payload.Embedded.Events {
		event, ok := raw.toEvent()
		if !ok {
			c.logger.Debug(ctx, "skipping listing without identity",
				logger.String("name", raw.Name))
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (c *Client) searchURL(q Query) string {
	values := url.Values{}
	values.Set("apikey", c.apiKey)
	size := q.Size
	if size <= 0 {
		size = defaultSize
	}
	values.Set("size", strconv.Itoa(size))
	if q.Keyword != "" {
		values.Set("keyword", q.Keyword)
	}
	if q.Classification != "" {
		values.Set("classificationName", q.Classification)
	}
	if q.City != "" {
		values.Set("city", q.City)
	}
	if q.Lat != 0 || q.Lon != 0 {
		values.Set("latlong", fmt.Sprintf("%.4f,%.4f", q.Lat, q.Lon))
		if q.RadiusKm > 0 {
			values.Set("radius", strconv.Itoa(q.RadiusKm))
			values.Set("unit", "km")
		}
	}
	return c.baseURL + "/events.json?" + values.Encode()
}

// transientError marks failures worth one broadened retry.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
