package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"IndexCompare/internal/logging"
	"IndexCompare/internal/model"
)

const (
	DefaultNSEBaseURL   = "https://www.nseindia.com/api/historical/indicesHistory"
	DefaultNSEHomeURL   = "https://www.nseindia.com"
	DefaultNSETimeout   = 10 * time.Second
	DefaultNSERateLimit = 3 // requests per second

	nseTimestampLayout = "02-Jan-2006"
	nseUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
)

// NSEFetcher implements Fetcher using the NSE historical indices API.
// The API refuses requests without the cookies its home page sets, so the fetcher visits
// the home page once before the first lookup and again after the API rejects the session.
type NSEFetcher struct {
	baseURL string
	homeURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logging.Logger
	timeout time.Duration
	proxy   *url.URL

	mu           sync.Mutex
	sessionReady bool
}

// NSEOption configures the fetcher
type NSEOption func(*NSEFetcher)

// WithBaseURL sets the history endpoint
func WithBaseURL(baseURL string) NSEOption {
	return func(f *NSEFetcher) {
		f.baseURL = baseURL
	}
}

// WithHomeURL sets the page visited to obtain session cookies
func WithHomeURL(homeURL string) NSEOption {
	return func(f *NSEFetcher) {
		f.homeURL = homeURL
	}
}

// WithHTTPClient sets the HTTP client the fetcher copies. A cookie jar is added to the copy
// when the client has none; the caller's client is never modified.
func WithHTTPClient(client *http.Client) NSEOption {
	return func(f *NSEFetcher) {
		c := *client
		f.client = &c
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) NSEOption {
	return func(f *NSEFetcher) {
		if requestsPerSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the per-request HTTP timeout, whatever client is in use.
func WithTimeout(timeout time.Duration) NSEOption {
	return func(f *NSEFetcher) {
		f.timeout = timeout
	}
}

// WithProxy routes requests through proxyURL. Invalid URLs are ignored.
func WithProxy(proxyURL string) NSEOption {
	return func(f *NSEFetcher) {
		if proxyURL == "" {
			return
		}
		if u, err := url.Parse(proxyURL); err == nil {
			f.proxy = u
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) NSEOption {
	return func(f *NSEFetcher) {
		f.logger = logger
	}
}

// NewNSEFetcher creates a new NSE fetcher.
func NewNSEFetcher(opts ...NSEOption) *NSEFetcher {
	f := &NSEFetcher{
		baseURL: DefaultNSEBaseURL,
		homeURL: DefaultNSEHomeURL,
		client:  &http.Client{Timeout: DefaultNSETimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultNSERateLimit), DefaultNSERateLimit),
		logger:  logging.NewSilent(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.timeout > 0 {
		f.client.Timeout = f.timeout
	}
	if f.proxy != nil {
		f.client.Transport = &http.Transport{Proxy: http.ProxyURL(f.proxy)}
	}
	if f.client.Jar == nil {
		jar, _ := cookiejar.New(nil)
		f.client.Jar = jar
	}
	return f
}

func (f *NSEFetcher) Name() string { return "nse" }

// nseResponse is the response structure from the NSE indicesHistory API.
type nseResponse struct {
	Data struct {
		Records []nseRecord `json:"indexCloseOnlineRecords"`
	} `json:"data"`
}

type nseRecord struct {
	IndexName string      `json:"EOD_INDEX_NAME"`
	Open      flexFloat64 `json:"EOD_OPEN_INDEX_VAL"`
	High      flexFloat64 `json:"EOD_HIGH_INDEX_VAL"`
	Low       flexFloat64 `json:"EOD_LOW_INDEX_VAL"`
	Close     flexFloat64 `json:"EOD_CLOSE_INDEX_VAL"`
	Timestamp string      `json:"EOD_TIMESTAMP"`
}

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (v *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" || s == "-" {
			*v = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as number: %w", s, err)
		}
		*v = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Fetch performs one lookup of seriesID over r.
func (f *NSEFetcher) Fetch(ctx context.Context, seriesID string, r model.DateRange) ([]model.Record, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	if err := f.ensureSession(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("indexType", seriesID)
	params.Set("from", model.FormatDate(r.Start))
	params.Set("to", model.FormatDate(r.End))
	reqURL := f.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	f.setHeaders(req)

	f.logger.Debug().Str("index", seriesID).Str("range", r.String()).Msg("NSE history request")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &model.TransportError{Endpoint: f.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		f.invalidateSession()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &model.TransportError{
			Endpoint:   f.baseURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))),
		}
	}

	var payload nseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &model.TransportError{Endpoint: f.baseURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	records := make([]model.Record, 0, len(payload.Data.Records))
	for _, row := range payload.Data.Records {
		date, err := time.Parse(nseTimestampLayout, strings.TrimSpace(row.Timestamp))
		if err != nil {
			return nil, &model.TransportError{Endpoint: f.baseURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("parse EOD_TIMESTAMP: %w", err)}
		}
		records = append(records, model.Record{
			SeriesID: seriesID,
			Date:     date,
			Open:     float64(row.Open),
			High:     float64(row.High),
			Low:      float64(row.Low),
			Close:    float64(row.Close),
		})
	}
	return records, nil
}

// ensureSession visits the home page to collect cookies unless a session is already held.
func (f *NSEFetcher) ensureSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionReady {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.homeURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create session request: %w", err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return &model.TransportError{Endpoint: f.homeURL, Err: fmt.Errorf("session bootstrap: %w", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &model.TransportError{Endpoint: f.homeURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("session bootstrap rejected")}
	}

	f.logger.Debug().Str("url", f.homeURL).Msg("NSE session established")
	f.sessionReady = true
	return nil
}

func (f *NSEFetcher) invalidateSession() {
	f.mu.Lock()
	f.sessionReady = false
	f.mu.Unlock()
}

func (f *NSEFetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", nseUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", strings.TrimSuffix(f.homeURL, "/")+"/")
}
