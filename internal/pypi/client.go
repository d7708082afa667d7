// Package pypi looks up the latest published release of a package on a
// PyPI-compatible index.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/go-version"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultBaseURL is the public index.
	DefaultBaseURL = "https://pypi.org"

	// EnvBaseURL overrides the index base URL, e.g. for a mirror.
	EnvBaseURL = "WORKMAN_PYPI_URL"

	requestTimeout = 10 * time.Second
	retryMax       = 2
	cacheSize      = 512
)

// Client fetches release information from the index JSON API. Results are
// cached for the life of the client.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	cache   *lru.Cache[string, *version.Version]
	log     hclog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another index.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the logger used for lookups and retries.
func WithLogger(l hclog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRetryWait shortens the back-off between retries.
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = waitMin
		c.http.RetryWaitMax = waitMax
	}
}

// NewClient returns a client for $WORKMAN_PYPI_URL, or DefaultBaseURL when
// that is unset.
func NewClient(opts ...Option) *Client {
	base := DefaultBaseURL
	if env := os.Getenv(EnvBaseURL); env != "" {
		base = strings.TrimRight(env, "/")
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = requestTimeout

	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = retryMax

	cache, _ := lru.New[string, *version.Version](cacheSize) // size is positive

	c := &Client{
		baseURL: base,
		http:    rc,
		cache:   cache,
		log:     hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Logger = c.log
	return c
}

type projectInfo struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// Latest returns the latest released version of name. Any failure,
// including an unparsable version string, is returned as an error.
func (c *Client) Latest(ctx context.Context, name string) (*version.Version, error) {
	key := strings.ToLower(name)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	u := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(key))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("looking up latest release", "package", name, "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying index for %s: %w", name, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying index for %s: unexpected status %s", name, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading index response for %s: %w", name, err)
	}

	var info projectInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decoding index response for %s: %w", name, err)
	}
	if info.Info.Version == "" {
		return nil, fmt.Errorf("index response for %s has no version", name)
	}
	v, err := version.NewVersion(info.Info.Version)
	if err != nil {
		return nil, fmt.Errorf("index version for %s: %w", name, err)
	}

	c.cache.Add(key, v)
	c.log.Debug("latest release", "package", name, "version", v.Original())
	return v, nil
}
