// Package capture extracts values from a captured HTTP response.
//
// Sessions use it to pull a fresh CSRF token out of a response body or
// header so the next mutating request can echo it back.
package capture
