package http

import (
	"strings"
	"time"
)

// StatusNoResponse is the sentinel status meaning no HTTP response was
// obtained at all (connection refused, DNS failure, timeout, TLS failure).
// It is distinct from every real status code.
const StatusNoResponse = 0

type Response struct {
	StatusCode  int
	Status      string
	HeaderLines []string // "Key: Value", one per line
	Body        []byte
	Duration    time.Duration
}

// NoResponse returns the record used when the transport produced no HTTP
// response. Body and headers are empty; only the sentinel code is set.
func NoResponse() *Response {
	return &Response{StatusCode: StatusNoResponse}
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Header returns the first value for key, matched case-insensitively.
func (r *Response) Header(key string) string {
	for _, line := range r.HeaderLines {
		k, v, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// HeaderText returns all header lines joined with newlines, for pattern
// matching across the full header block.
func (r *Response) HeaderText() string {
	return strings.Join(r.HeaderLines, "\n")
}

func (r *Response) IsNoResponse() bool {
	return r.StatusCode == StatusNoResponse
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
