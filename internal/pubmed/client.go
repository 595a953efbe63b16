// Package pubmed provides a rate-limited client for the NCBI Entrez
// E-utilities API and helpers for building PubMed queries.
package pubmed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/kinleydh/syrev/internal/medline"
	"github.com/kinleydh/syrev/internal/record"
)

const (
	// BaseURL is the Entrez E-utilities base URL.
	BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// NCBI allows 3 requests per second without an API key, 10 with one.
	anonymousRateLimit = 3.0
	keyedRateLimit     = 10.0

	// Default limits for harvesting.
	DefaultMaxResults = 5000
	DefaultBatchSize  = 100

	// maxAttempts bounds the retries on transient HTTP failures.
	maxAttempts = 5
)

// Client is a rate-limited HTTP client for the Entrez E-utilities API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	email      string
	baseURL    string
	tool       string
	retryBase  time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the NCBI API key (raises the rate limit to 10 rps).
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithEmail sets the contact email sent with every request, as NCBI asks.
func WithEmail(email string) ClientOption {
	return func(c *Client) {
		c.email = email
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new Entrez client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
		tool:       "syrev",
		retryBase:  time.Second,
	}

	// Check for API key in environment
	if key := os.Getenv("NCBI_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	limit := rate.Limit(anonymousRateLimit)
	if c.apiKey != "" {
		limit = rate.Limit(keyedRateLimit)
	}
	c.limiter = rate.NewLimiter(limit, 1)

	return c
}

// SearchResult identifies a result set held on the Entrez history server.
type SearchResult struct {
	Count    int
	WebEnv   string
	QueryKey string
}

type esearchResponse struct {
	ESearchResult struct {
		Count    string `json:"count"`
		WebEnv   string `json:"webenv"`
		QueryKey string `json:"querykey"`
	} `json:"esearchresult"`
}

// Search runs esearch with the history server enabled so the matching
// records can be fetched in batches afterwards.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("usehistory", "y")
	params.Set("retmode", "json")

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	count, err := strconv.Atoi(resp.ESearchResult.Count)
	if err != nil {
		return nil, fmt.Errorf("parsing esearch count %q: %w", resp.ESearchResult.Count, err)
	}

	return &SearchResult{
		Count:    count,
		WebEnv:   resp.ESearchResult.WebEnv,
		QueryKey: resp.ESearchResult.QueryKey,
	}, nil
}

// Fetch retrieves one batch of MEDLINE-format records from a prior Search.
func (c *Client) Fetch(ctx context.Context, sr *SearchResult, retstart, retmax int) ([]medline.Fields, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("WebEnv", sr.WebEnv)
	params.Set("query_key", sr.QueryKey)
	params.Set("retstart", strconv.Itoa(retstart))
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("rettype", "medline")
	params.Set("retmode", "text")

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	return medline.Parse(bytes.NewReader(body))
}

// Progress receives harvest progress updates: records extracted so far and
// the total expected for the current query chunk.
type Progress func(fetched, total int)

// Harvest runs the full search-and-fetch flow for a query. The query is
// split into chunks that fit Entrez's length limits, each chunk is
// searched with the history server, and the results are fetched in batches
// of batchSize and extracted into records.
func (c *Client) Harvest(ctx context.Context, query string, maxResults, batchSize int, progress Progress) ([]record.Record, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var records []record.Record
	for _, chunk := range SplitQuery(query, MaxQueryLength) {
		sr, err := c.Search(ctx, chunk, maxResults)
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", chunk, err)
		}

		total := sr.Count
		if total > maxResults {
			total = maxResults
		}

		fetched := 0
		for start := 0; start < total; start += batchSize {
			fields, err := c.Fetch(ctx, sr, start, batchSize)
			if err != nil {
				return nil, fmt.Errorf("fetching records from %d: %w", start, err)
			}
			records = append(records, medline.ExtractAll(fields)...)
			fetched += len(fields)
			if progress != nil {
				progress(fetched, total)
			}
		}
	}
	return records, nil
}

// get performs a rate-limited GET with retries. Transient failures
// (network errors, HTTP 429 and 5xx) back off exponentially for up to
// maxAttempts tries; other HTTP errors return immediately.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}
	params.Set("tool", c.tool)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.retryBase << uint(attempt-1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}
		lastErr = fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return nil, lastErr
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", maxAttempts, lastErr)
}
