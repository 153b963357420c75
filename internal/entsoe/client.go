package entsoe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"dayahead-prices/internal/model"
)

// DefaultBaseURL is the Transparency Platform RESTful API endpoint.
const DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"

// documentTypeDayAhead is the document type of the day-ahead price
// publication ("Price Document").
const documentTypeDayAhead = "A44"

// periodLayout is the yyyyMMddHHmm timestamp format the API expects.
// Always rendered in UTC.
const periodLayout = "200601021504"

// Client fetches day-ahead price publications from the ENTSO-E Transparency
// Platform.
type Client struct {
	Token   string
	BaseURL string
	Domain  string // EIC code of the bidding zone, e.g. "10YBE----------2"
	Client  *http.Client

	// The platform caps a token at 400 requests per minute. One limiter per
	// client keeps concurrent API handlers from tripping that together.
	limiter *rate.Limiter
}

// NewClient creates a Transparency Platform client for one bidding zone.
// If baseURL is empty, defaults to DefaultBaseURL.
func NewClient(token string, baseURL string, domain string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Token:   token,
		BaseURL: baseURL,
		Domain:  domain,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

// APIError represents an error response from the Transparency Platform.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

// FetchDayAhead requests the A44 publication covering [startUTC, endUTC) for
// the client's bidding zone and decodes it.
//
// A NoDataError means the window has no published prices yet (normal for
// tomorrow, before the auction closes); a MalformedDocumentError means the
// body was not a price publication; an APIError covers HTTP-level failures.
func (c *Client) FetchDayAhead(ctx context.Context, startUTC, endUTC time.Time) (*model.MarketDocument, error) {
	if err := c.validateToken(); err != nil {
		return nil, err
	}
	if c.Domain == "" {
		return nil, fmt.Errorf("domain is required")
	}
	if startUTC.IsZero() || endUTC.IsZero() {
		return nil, fmt.Errorf("start and end are required")
	}
	if !startUTC.Before(endUTC) {
		return nil, fmt.Errorf("start must be before end")
	}

	// Check cache first (only if enabled for development).
	cache := GetCache()
	var cacheKey string
	if cache != nil {
		cacheKey = GenerateCacheKey(c.Domain, startUTC, endUTC)
		if cached, found := cache.Get(cacheKey); found {
			log.Infof("[ENTSOE] Cache hit: using cached document with %d series (domain=%s, start=%s, end=%s)",
				len(cached.Series), c.Domain, startUTC.UTC().Format(periodLayout), endUTC.UTC().Format(periodLayout))
			return cached, nil
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("securityToken", c.Token)
	q.Set("documentType", documentTypeDayAhead)
	q.Set("in_Domain", c.Domain)
	q.Set("out_Domain", c.Domain)
	q.Set("periodStart", startUTC.UTC().Format(periodLayout))
	q.Set("periodEnd", endUTC.UTC().Format(periodLayout))
	u.RawQuery = q.Encode()

	log.Infof("[ENTSOE] Request: GET %s (documentType=%s, domain=%s, periodStart=%s, periodEnd=%s)",
		u.Path,
		documentTypeDayAhead,
		c.Domain,
		startUTC.UTC().Format(periodLayout),
		endUTC.UTC().Format(periodLayout))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	startedAt := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startedAt)
	if err != nil {
		log.Warnf("[ENTSOE] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Infof("[ENTSOE] Response: %d %s (duration: %v, domain=%s)",
		resp.StatusCode, resp.Status, duration, c.Domain)

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue. Note that "no data" still arrives as a 200
		// carrying an Acknowledgement_MarketDocument; the parser handles it.
	case http.StatusUnauthorized:
		log.Warnf("[ENTSOE] Error: 401 Unauthorized - missing or invalid security token (domain=%s)", c.Domain)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: missing or invalid security token",
		}
	case http.StatusForbidden:
		log.Warnf("[ENTSOE] Error: 403 Forbidden - token not authorized for this request (domain=%s)", c.Domain)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "FORBIDDEN",
			Message:    "Forbidden: token not authorized for this request",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		log.Warnf("[ENTSOE] Error: 429 Rate Limit Exceeded - Retry after: %s (domain=%s)", retryAfter, c.Domain)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusBadRequest:
		log.Warnf("[ENTSOE] Error: 400 Bad Request (domain=%s)", c.Domain)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "BAD_REQUEST",
			Message:    "Bad request: the platform rejected the query parameters",
		}
	default:
		log.Warnf("[ENTSOE] Error: %d %s (domain=%s)", resp.StatusCode, resp.Status, c.Domain)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warnf("[ENTSOE] Error reading response body: %v (domain=%s)", err, c.Domain)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	doc, err := ParseDocument(body)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, s := range doc.Series {
		total += s.PointCount()
	}
	log.Infof("[ENTSOE] Success: received %d series with %d points (domain=%s)",
		len(doc.Series), total, c.Domain)

	// Cache the document if caching is enabled (development only).
	if cache != nil {
		cache.Set(cacheKey, doc)
		log.Infof("[ENTSOE] Cached document (domain=%s, start=%s)", c.Domain, startUTC.UTC().Format(periodLayout))
	}

	return doc, nil
}

// FetchLocalDay fetches the publication covering one local calendar day:
// the UTC request window is [local midnight, next local midnight).
func (c *Client) FetchLocalDay(ctx context.Context, date time.Time, loc *time.Location) (*model.MarketDocument, error) {
	startUTC, endUTC := model.LocalDayWindow(date, loc)
	return c.FetchDayAhead(ctx, startUTC, endUTC)
}

// validateToken rejects obviously unusable tokens before spending a request.
// Platform tokens are UUID-shaped; the format itself is not validated here.
func (c *Client) validateToken() error {
	if c.Token == "" {
		return &APIError{
			StatusCode: 0,
			Code:       "MISSING_TOKEN",
			Message:    "security token is required",
		}
	}
	if len(c.Token) < 10 {
		return &APIError{
			StatusCode: 0,
			Code:       "INVALID_TOKEN_FORMAT",
			Message:    "security token appears to be invalid (too short)",
		}
	}
	return nil
}
