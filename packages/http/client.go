package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	neturl "net/url"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	noProxy        []string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		if proxyURL, err := neturl.Parse(c.proxyURL); err == nil {
			transport.Proxy = c.proxyFunc(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

// proxyFunc returns a proxy selector that honors the no-proxy list. Entries
// match a host exactly or as a domain suffix.
func (c *Client) proxyFunc(proxyURL *neturl.URL) func(*http.Request) (*neturl.URL, error) {
	return func(req *http.Request) (*neturl.URL, error) {
		host := req.URL.Hostname()
		for _, entry := range c.noProxy {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			if host == entry || strings.HasSuffix(host, "."+strings.TrimPrefix(entry, ".")) {
				return nil, nil
			}
		}
		return proxyURL, nil
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithNoProxy sets hosts that bypass the proxy (comma-separated list)
func WithNoProxy(list string) ClientOption {
	return func(c *Client) {
		if list != "" {
			c.noProxy = strings.Split(list, ",")
		}
	}
}

// Do executes a request and returns the captured response. The caller decides
// how to treat transport errors; smokecheck sessions fold every error into
// the no-response sentinel.
func (c *Client) Do(req *Request) (*Response, error) {
	ctx := context.Background()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	return c.doRequest(ctx, req)
}

func (c *Client) doRequest(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}

	for _, h := range req.Headers {
		httpReq.Header.Set(h.Key, h.Value)
	}

	// The Host header is special-cased by net/http and must be set on the
	// request struct, not the header map.
	if req.Host != "" {
		httpReq.Host = req.Host
	}

	if req.BasicAuth != nil {
		httpReq.SetBasicAuth(req.BasicAuth.Username, req.BasicAuth.Password)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:  httpResp.StatusCode,
		Status:      httpResp.Status,
		HeaderLines: headerLines(httpResp.Header),
		Body:        respBody,
		Duration:    duration,
	}, nil
}

// headerLines flattens a header map into "Key: Value" lines. Go's http
// package does not preserve wire order, so lines are emitted in sorted key
// order to keep output deterministic.
func headerLines(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		for _, v := range h[k] {
			lines = append(lines, k+": "+v)
		}
	}
	return lines
}

func (c *Client) Get(url string, headers []HeaderField) (*Response, error) {
	return c.Do(&Request{
		Method:  "GET",
		URL:     url,
		Headers: headers,
	})
}

func (c *Client) Post(url, body string, headers []HeaderField) (*Response, error) {
	return c.Do(&Request{
		Method:  "POST",
		URL:     url,
		Body:    body,
		Headers: headers,
	})
}

func (c *Client) Options(url string, headers []HeaderField) (*Response, error) {
	return c.Do(&Request{
		Method:  "OPTIONS",
		URL:     url,
		Headers: headers,
	})
}
