// Package http provides the HTTP transport for smokecheck sessions.
//
// It wraps the standard library's http package with the knobs a smoke
// session needs:
//   - Configurable timeouts
//   - Follow/no-follow redirect policy
//   - Proxy and no-proxy handling
//   - Host header override and Basic auth
//   - Ordered response header capture
package http
