package session

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpx "github.com/smokecheck/smokecheck/packages/http"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(WithWriter(&buf)), &buf
}

func TestSession_PrefixResolution(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, _ := newTestSession(t)
	s.SetPrefix(server.URL)
	s.Get("/login")

	assert.Equal(t, "/login", gotPath)
	assert.Equal(t, 200, s.LastResponse().StatusCode)
}

func TestSession_HeadersAndHostAndOrigin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "override.example.org", r.Host)
		assert.Equal(t, "https://app.example.org", r.Header.Get("Origin"))
		assert.Equal(t, "v2", r.Header.Get("X-Api-Version"))
		assert.Empty(t, r.Header.Get("X-Removed"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, _ := newTestSession(t)
	s.SetHost("override.example.org")
	s.SetOrigin("https://app.example.org")
	s.SetHeader("X-Api-Version", "v1")
	s.SetHeader("X-Api-Version", "v2") // replaces, keeps position
	s.SetHeader("X-Removed", "gone")
	s.UnsetHeader("X-Removed")

	s.Get(server.URL)
	assert.Equal(t, 200, s.LastResponse().StatusCode)
}

func TestSession_PostSubstitutesCSRFToken(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	formFile := filepath.Join(t.TempDir(), "login.form")
	require.NoError(t, os.WriteFile(formFile, []byte("user=bob&csrf="+Placeholder), 0644))

	s, _ := newTestSession(t)
	s.SetCSRFToken("abc123")
	s.Post(server.URL, formFile)

	assert.Equal(t, "user=bob&csrf=abc123", gotBody)
}

func TestSession_PostMissingFormFile(t *testing.T) {
	s, _ := newTestSession(t)
	s.Post("http://127.0.0.1:1/x", filepath.Join(t.TempDir(), "missing.form"))

	assert.True(t, s.LastResponse().IsNoResponse())
}

func TestSession_NoResponseSentinel(t *testing.T) {
	// Grab a port that refuses connections.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	refusedURL := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	s, _ := newTestSession(t)
	s.Get(refusedURL)

	resp := s.LastResponse()
	assert.True(t, resp.IsNoResponse())
	assert.Empty(t, resp.Body)
	assert.Empty(t, resp.HeaderLines)

	// Only the no-response assertion passes against the sentinel.
	assert.True(t, s.AssertNoResponse())
	assert.False(t, s.AssertOK())
	assert.False(t, s.AssertCode(200))
	assert.False(t, s.AssertBodyContains("x"))
	assert.False(t, s.AssertHeaderContains("x"))
}

func TestSession_GetOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, _ := newTestSession(t)
	s.GetOK(server.URL)

	assert.Equal(t, 1, s.OKCount())
	assert.Equal(t, 0, s.FailCount())
}

func TestSession_GetCORSRequiresOrigin(t *testing.T) {
	s, out := newTestSession(t)
	s.GetCORS("http://example.org/api")

	assert.Equal(t, 1, s.FailCount())
	assert.Contains(t, out.String(), "origin not set")
}

func TestSession_TCPConnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	addr := ln.Addr().(*net.TCPAddr)

	s, _ := newTestSession(t)
	s.TCPConnect("127.0.0.1", addr.Port)
	assert.Equal(t, 1, s.OKCount())

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := closed.Addr().(*net.TCPAddr).Port
	require.NoError(t, closed.Close())

	s.TCPConnect("127.0.0.1", closedPort)
	assert.Equal(t, 1, s.FailCount())
}

func TestSession_HookRunsOncePerRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CSRF", "next-token")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, _ := newTestSession(t)
	calls := 0
	s.SetHook(func(resp *httpx.Response) {
		calls++
		s.SetCSRFToken(resp.Header("X-CSRF"))
	})

	s.Get(server.URL)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "next-token", s.CSRFToken())

	s.Get(server.URL)
	assert.Equal(t, 2, calls)
}

func TestSession_PasswordPromptedOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "prompted", pass)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	prompts := 0
	var buf bytes.Buffer
	s := New(WithWriter(&buf), WithPasswordPrompt(func(username string) (string, error) {
		prompts++
		return "prompted", nil
	}))
	s.SetCredentials("alice", "", false)

	s.Get(server.URL)
	s.Get(server.URL)

	assert.Equal(t, 1, prompts)
	assert.Equal(t, 200, s.LastResponse().StatusCode)
}

func TestSession_LastResponseOverwrittenWholesale(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Marker", "first")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("first body"))
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("second body"))
	}))
	defer second.Close()

	s, _ := newTestSession(t)
	s.Get(first.URL)
	s.Get(second.URL)

	resp := s.LastResponse()
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "second body", resp.BodyString())
	assert.Empty(t, resp.Header("X-Marker"))
}

func TestSession_TraceLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, out := newTestSession(t)
	s.Get(server.URL + "/health")

	assert.Contains(t, out.String(), "> GET "+server.URL+"/health")
}
