// Package joke fetches short texts from an external HTTP provider.
package joke

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/Iron-Ham/moyu/internal/errors"
	"golang.org/x/net/html/charset"
)

// DefaultEndpoint serves one random joke per request as plain text.
const DefaultEndpoint = "https://api.vvhan.com/api/text/joke"

// Defaults for HTTPProvider.
const (
	DefaultTimeout  = 5 * time.Second
	DefaultMaxBytes = 16 << 10
)

// Provider returns one text per call.
type Provider interface {
	Fetch(ctx context.Context) (string, error)
}

// Options configures an HTTPProvider. Zero fields take the defaults.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	MaxBytes int64
	Client   *http.Client
}

// HTTPProvider fetches a text with GET from an HTTP endpoint.
type HTTPProvider struct {
	endpoint string
	timeout  time.Duration
	maxBytes int64
	client   *http.Client
}

// NewHTTPProvider creates a provider for opts.Endpoint.
func NewHTTPProvider(opts Options) *HTTPProvider {
	p := &HTTPProvider{
		endpoint: opts.Endpoint,
		timeout:  opts.Timeout,
		maxBytes: opts.MaxBytes,
		client:   opts.Client,
	}
	if p.endpoint == "" {
		p.endpoint = DefaultEndpoint
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.maxBytes <= 0 {
		p.maxBytes = DefaultMaxBytes
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}
	return p
}

// Endpoint returns the URL the provider requests.
func (p *HTTPProvider) Endpoint() string {
	return p.endpoint
}

// Fetch requests one text. The body is transcoded to UTF-8 from the
// response charset and trimmed of surrounding whitespace.
//
// Transport errors and timeouts are reported as errors.ErrNetworkFailure.
// A non-2xx status, a non-text content type, an unknown charset, an
// oversized body or a blank body are reported as errors.ErrResponseFailure.
func (p *HTTPProvider) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return "", errors.NewFetchError(errors.NetworkFailure, p.endpoint, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "text/plain, text/*;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", errors.NewFetchError(errors.NetworkFailure, p.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", p.responseError(errors.ErrUnexpectedStatus, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	params, ok := textParams(contentType)
	if !ok {
		return "", p.responseError(fmt.Errorf("%w: %q", errors.ErrNotText, contentType), resp.StatusCode)
	}
	if label, declared := params["charset"]; declared {
		if enc, _ := charset.Lookup(label); enc == nil {
			return "", p.responseError(fmt.Errorf("%w: %q", errors.ErrUnknownCharset, label), resp.StatusCode)
		}
	}

	raw := &countingReader{r: io.LimitReader(resp.Body, p.maxBytes+1)}
	body, err := charset.NewReader(raw, contentType)
	if err != nil {
		return "", errors.NewFetchError(errors.NetworkFailure, p.endpoint, fmt.Errorf("read body: %w", err))
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.NewFetchError(errors.NetworkFailure, p.endpoint, fmt.Errorf("read body: %w", err))
	}
	if raw.n > p.maxBytes {
		return "", p.responseError(fmt.Errorf("%w: limit %d bytes", errors.ErrBodyTooLarge, p.maxBytes), resp.StatusCode)
	}

	text := strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff"))
	if text == "" {
		return "", p.responseError(errors.ErrEmptyBody, resp.StatusCode)
	}
	return text, nil
}

func (p *HTTPProvider) responseError(cause error, status int) error {
	return errors.NewFetchError(errors.ResponseFailure, p.endpoint, cause).WithStatus(status)
}

// textParams accepts text/* and a missing content type, returning the
// media type parameters.
func textParams(contentType string) (map[string]string, bool) {
	if strings.TrimSpace(contentType) == "" {
		return nil, true
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "text/") {
		return nil, false
	}
	return params, true
}

// countingReader counts the bytes read from the wire, before transcoding.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}

// Static is a Provider that always returns the same text without network
// access. It stands in for the HTTP provider when fetching is disabled.
type Static string

// Fetch returns the text.
func (s Static) Fetch(context.Context) (string, error) {
	return string(s), nil
}
