// Package session implements the smokecheck assertion state machine.
//
// A Session owns the request configuration (prefix, headers, proxy,
// credentials, CSRF token, redirect policy), the record of the most recent
// response, and the running pass/fail tally. Requests overwrite the last
// response wholesale; assertions compare against it and never halt the run;
// Report prints the summary and yields the process exit code.
//
// Sessions are single-threaded by design. One request is in flight at a
// time and no assertion runs concurrently with another.
package session
