// Package census fetches ZIP-level income, rent and population from the
// Census Bureau ACS 5-year API.
package census

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/budget-cli/internal/resilience"
)

// ACS variables requested for each ZIP code tabulation area.
const (
	VarMedianIncome = "B19013_001E" // median household income, annual
	VarMedianRent   = "B25064_001E" // median gross rent, monthly
	VarPopulation   = "B01003_001E" // total population
)

const (
	defaultBaseURL = "https://api.census.gov/data"
	defaultYear    = 2021
	defaultDataset = "acs/acs5"
	maxBodyBytes   = 1 << 20
)

// ErrNoData means the provider answered but has no row for the ZIP.
var ErrNoData = eris.New("census: no data for zip")

// Observation is the raw ACS answer for one ZIP. A nil field means the
// value was missing, non-numeric or a Census sentinel.
type Observation struct {
	ZipCode      string    `json:"zip_code"`
	MedianIncome *float64  `json:"median_income,omitempty"`
	MedianRent   *float64  `json:"median_rent,omitempty"`
	Population   *int      `json:"population,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps requests per second. Zero or less disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(b resilience.Backoff) Option {
	return func(c *Client) { c.backoff = b }
}

// WithBreaker sets the circuit breaker guarding the API. Nil disables it.
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// WithYear selects the ACS vintage.
func WithYear(year int) Option {
	return func(c *Client) {
		if year > 0 {
			c.year = year
		}
	}
}

// WithDataset selects the dataset path under the year, e.g. "acs/acs5".
func WithDataset(ds string) Option {
	return func(c *Client) {
		if ds = strings.Trim(ds, "/"); ds != "" {
			c.dataset = ds
		}
	}
}

// WithKey sets the API key. Requests without one are accepted by Census at
// a lower daily quota.
func WithKey(key string) Option {
	return func(c *Client) { c.key = key }
}

// Client talks to the ACS API.
type Client struct {
	baseURL    string
	year       int
	dataset    string
	key        string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.Breaker
	backoff    resilience.Backoff
	now        func() time.Time
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	b := resilience.DefaultBackoff()
	b.OnRetry = resilience.LogRetries("census")
	c := &Client{
		baseURL:    defaultBaseURL,
		year:       defaultYear,
		dataset:    defaultDataset,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(20, 20),
		breaker:    resilience.NewBreaker(resilience.NewBreakerConfig(0, 0)),
		backoff:    b,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the ACS observation for zip. It returns ErrNoData when the
// API has no row for the ZIP, and resilience.ErrOpen while the circuit is
// open.
func (c *Client) Fetch(ctx context.Context, zip string) (*Observation, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return nil, eris.New("census: empty zip")
	}

	return resilience.Retry(ctx, c.backoff, func(ctx context.Context) (*Observation, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "census: rate limit")
		}
		if c.breaker == nil {
			return c.fetchOnce(ctx, zip)
		}
		return resilience.Call(ctx, c.breaker, func(ctx context.Context) (*Observation, error) {
			return c.fetchOnce(ctx, zip)
		})
	})
}

// RequestURL returns the API URL for zip.
func (c *Client) RequestURL(zip string) string {
	u := fmt.Sprintf("%s/%d/%s?get=%s,%s,%s&for=zip%%20code%%20tabulation%%20area:%s",
		c.baseURL, c.year, c.dataset,
		VarMedianIncome, VarMedianRent, VarPopulation,
		url.PathEscape(zip),
	)
	if c.key != "" {
		u += "&key=" + url.QueryEscape(c.key)
	}
	return u
}

func (c *Client) fetchOnce(ctx context.Context, zip string) (*Observation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(zip), nil)
	if err != nil {
		return nil, eris.Wrap(err, "census: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, eris.Wrap(err, "census: request")
		}
		return nil, resilience.NewTransientError(eris.Wrap(err, "census: request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, ErrNoData
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return nil, resilience.NewTransientError(
			eris.Errorf("census: status %d for zip %s", resp.StatusCode, zip), resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, eris.Errorf("census: status %d for zip %s", resp.StatusCode, zip)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "census: read body"), 0)
	}

	obs, err := parseResponse(body)
	if err != nil {
		return nil, err
	}
	obs.ZipCode = zip
	obs.FetchedAt = c.now().UTC()
	return obs, nil
}
