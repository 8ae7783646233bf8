// Package assertions evaluates checks against a captured HTTP response.
//
// Checks are pure: they take the response and an expected value and return a
// Result. Accounting and output belong to the session that runs them.
// Body and header checks use pattern semantics: the expected value is tried
// as a regular expression first and falls back to a literal substring when it
// does not compile.
package assertions
