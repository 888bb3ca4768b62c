// Package azure queries the Azure Resource Manager REST API and assembles
// the network inventory: virtual networks, subnets, peerings, virtual WAN
// hubs, and gateway features.
//
// The client speaks plain ARM REST with bearer-token auth, follows
// nextLink pagination, retries throttled and failing requests with
// exponential backoff, and caches responses through a pluggable cache
// backend.
package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/krhatland/cloudnetdraw-go/pkg/cache"
	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/httputil"
)

const (
	defaultBaseURL = "https://management.azure.com"

	// ARM api-versions pinned per resource type.
	apiVersionSubscriptions = "2022-12-01"
	apiVersionNetwork       = "2024-05-01"
)

// Client is an authenticated ARM REST client with caching and retries.
// Safe for concurrent use.
type Client struct {
	http    *http.Client
	cred    Credential
	cache   cache.Cache
	baseURL string
	log     *log.Logger
}

// NewClient returns a client using the given credential and cache backend.
// A nil logger silences diagnostics.
func NewClient(cred Credential, backend cache.Cache, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		cred:    cred,
		cache:   backend,
		baseURL: defaultBaseURL,
		log:     logger,
	}
}

// cached runs fetch through the cache: on a hit the cached bytes are
// decoded into v; on a miss fetch executes (with retries applied by the
// caller's request path) and the result is stored with the given TTL.
func (c *Client) cached(ctx context.Context, key string, ttl time.Duration, v any, fetch func() (any, error)) error {
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(data, v); err == nil {
			c.log.Debug("cache hit", "key", key)
			return nil
		}
		// A corrupt entry is dropped and refetched.
		_ = c.cache.Delete(ctx, key)
	}

	result, err := fetch()
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode cache entry")
	}
	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.log.Warn("cache write failed", "key", key, "err", err)
	}
	return json.Unmarshal(data, v)
}

// get performs one authenticated GET with retry and decodes the body into v.
func (c *Client) get(ctx context.Context, url string, v any) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		return c.doGet(ctx, url, v)
	})
}

func (c *Client) doGet(ctx context.Context, url string, v any) error {
	token, err := c.cred.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return httputil.Retryable(apperrors.Wrap(apperrors.ErrCodeNetwork, err, "GET %s", url))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "decode %s", url)
	}
	return nil
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized:
		return apperrors.New(apperrors.ErrCodeUnauthorized, "unauthorized for %s", url)
	case code == http.StatusForbidden:
		return apperrors.New(apperrors.ErrCodeForbidden, "forbidden for %s", url)
	case code == http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, "%s not found", url)
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(apperrors.New(apperrors.ErrCodeRateLimited, "throttled on %s", url))
	case code >= 500:
		return httputil.Retryable(apperrors.New(apperrors.ErrCodeNetwork, "status %d from %s", code, url))
	default:
		return apperrors.New(apperrors.ErrCodeNetwork, "status %d from %s", code, url)
	}
}

// listPage is one page of an ARM collection response.
type listPage struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"nextLink"`
}

// list follows nextLink pagination and returns all collection items.
func (c *Client) list(ctx context.Context, url string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	for url != "" {
		var page listPage
		if err := c.get(ctx, url, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Value...)
		url = page.NextLink
	}
	return items, nil
}

func (c *Client) armURL(format string, args ...any) string {
	return c.baseURL + fmt.Sprintf(format, args...)
}
