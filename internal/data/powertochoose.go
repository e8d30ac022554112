package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"plan-picker/internal/model"

	log "github.com/sirupsen/logrus"
)

// DefaultBaseURL is the public PowerToChoose API host.
const DefaultBaseURL = "http://api.powertochoose.org"

// CatalogSource supplies the retail plan catalog for a ZIP code.
type CatalogSource interface {
	QueryPlans(ctx context.Context, zipCode string) (*model.CatalogResponse, error)
}

// CatalogClient fetches plans from the PowerToChoose marketplace API.
type CatalogClient struct {
	BaseURL string
	Client  *http.Client
	Cache   Cache
}

// NewCatalogClient creates a new marketplace client.
// If baseURL is empty, defaults to DefaultBaseURL. cache may be nil.
func NewCatalogClient(baseURL string, timeout time.Duration, cache Cache) *CatalogClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CatalogClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
		Cache: cache,
	}
}

// CatalogError represents a non-success answer from the marketplace.
type CatalogError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *CatalogError) Error() string {
	return e.Message
}

// QueryPlans fetches every plan offered at zipCode. A ZIP outside the retail
// market yields an empty Data slice, not an error.
func (c *CatalogClient) QueryPlans(ctx context.Context, zipCode string) (*model.CatalogResponse, error) {
	zipCode = strings.TrimSpace(zipCode)
	if zipCode == "" {
		return nil, &CatalogError{Code: "MISSING_ZIP_CODE", Message: "zip_code is required"}
	}

	cacheKey := GenerateCacheKey(zipCode)
	if c.Cache != nil {
		if cached, found := c.Cache.Get(ctx, cacheKey); found {
			log.WithFields(log.Fields{"zip_code": zipCode, "plans": len(cached.Data)}).
				Debug("[PowerToChoose] Cache hit")
			return cached, nil
		}
	}

	u, err := url.Parse(c.BaseURL + "/api/PowerToChoose/plans")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("zip_code", zipCode)
	u.RawQuery = q.Encode()

	log.Infof("[PowerToChoose] Request: GET %s (zip_code=%s)", u.Path, zipCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Errorf("[PowerToChoose] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Infof("[PowerToChoose] Response: %d (duration: %v, zip_code=%s)", resp.StatusCode, duration, zipCode)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &CatalogError{
			StatusCode: resp.StatusCode,
			Code:       "CATALOG_UNAUTHORIZED",
			Message:    "Marketplace rejected the request",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		log.Warnf("[PowerToChoose] Error: 429 Rate Limit Exceeded - Retry after: %s (zip_code=%s)", retryAfter, zipCode)
		return nil, &CatalogError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		log.Errorf("[PowerToChoose] Error: %d %s (zip_code=%s)", resp.StatusCode, resp.Status, zipCode)
		return nil, &CatalogError{
			StatusCode: resp.StatusCode,
			Code:       "CATALOG_ERROR",
			Message:    fmt.Sprintf("Marketplace returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var result model.CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Errorf("[PowerToChoose] Error decoding response: %v (zip_code=%s)", err, zipCode)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Infof("[PowerToChoose] Success: Received %d plans (zip_code=%s)", len(result.Data), zipCode)

	if c.Cache != nil {
		c.Cache.Set(ctx, cacheKey, &result)
	}
	return &result, nil
}
