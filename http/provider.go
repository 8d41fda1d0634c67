// Package http provides an HTTP-based bundle provider for documentation
// served by a remote renderer.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/getdocsy/docsee"
	"golang.org/x/time/rate"
)

// DefaultRequestTimeout is the default timeout for HTTP requests.
const DefaultRequestTimeout = 10 * time.Second

// DefaultRequestsPerSecond is the default request rate against one host.
const DefaultRequestsPerSecond = 10

// Ensure Provider implements docsee.BundleProvider at compile time.
var _ docsee.BundleProvider = (*Provider)(nil)

// Provider retrieves bundle resources from a documentation server. All
// requests are rate limited so bulk artifact fetches do not hammer the
// host.
type Provider struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	rps     float64
}

// Option configures a Provider.
type Option func(*Provider)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultRequestTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// WithRequestsPerSecond sets the request rate limit.
// Defaults to DefaultRequestsPerSecond if not specified.
func WithRequestsPerSecond(rps float64) Option {
	return func(p *Provider) {
		p.rps = rps
	}
}

// NewProvider creates a Provider serving resources relative to baseURL.
func NewProvider(baseURL string, opts ...Option) *Provider {
	p := &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: DefaultRequestTimeout,
		rps:     DefaultRequestsPerSecond,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.client = &http.Client{Timeout: p.timeout}
	p.limiter = rate.NewLimiter(rate.Limit(p.rps), 1)

	return p
}

// Data retrieves the bytes at baseURL + path.
func (p *Provider) Data(ctx context.Context, path string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := p.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, docsee.Errorf(docsee.ENOTFOUND, "resource %q not found", path)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
