package http

import (
	neturl "net/url"
	"strings"
	"time"
)

// HeaderField is a single request header. Order matters: fields are applied
// in the order they were configured.
type HeaderField struct {
	Key   string
	Value string
}

// BasicAuthCredentials holds credentials for HTTP Basic authentication
type BasicAuthCredentials struct {
	Username string
	Password string
}

type Request struct {
	Method    string
	URL       string
	Headers   []HeaderField
	Body      string
	Host      string // overrides the Host header when non-empty
	BasicAuth *BasicAuthCredentials
	Timeout   time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method: method,
		URL:    requestURL,
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers = append(r.Headers, HeaderField{Key: key, Value: value})
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// ResolveURL prepends prefix when raw is not an absolute URL. Prefix and path
// are joined with exactly one slash between them.
func ResolveURL(prefix, raw string) string {
	if IsAbsoluteURL(raw) || prefix == "" {
		return raw
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(raw, "/")
}

// IsAbsoluteURL reports whether raw carries its own scheme and host.
func IsAbsoluteURL(raw string) bool {
	u, err := neturl.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
