package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_ZeroChecksVacuouslyPasses(t *testing.T) {
	s, out := newTestSession(t)

	code := s.Report()
	assert.Equal(t, ExitAllPassed, code)
	assert.Contains(t, out.String(), "OK (0/0)")
}

func TestReport_AllPassed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("search results"))
	}))
	defer server.Close()

	s, out := newTestSession(t)
	s.Get(server.URL)
	s.AssertOK()
	s.AssertCode(200)
	s.AssertBodyContains("search")

	code := s.Report()
	assert.Equal(t, ExitAllPassed, code)
	assert.Contains(t, out.String(), "OK (3/3)")
}

func TestReport_FailuresYieldNonzero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("no match here"))
	}))
	defer server.Close()

	s, out := newTestSession(t)
	s.Get(server.URL)
	s.AssertOK()                    // fail
	s.AssertCode(418)               // pass
	s.AssertBodyContains("search")  // fail

	code := s.Report()
	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, out.String(), "FAILED (2 failed of 3)")
}

func TestTallyInvariant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, _ := newTestSession(t)
	s.Get(server.URL)

	// ok + fail must equal the number of assertions after every step.
	for i := 1; i <= 10; i++ {
		if i%2 == 0 {
			s.AssertCode(500)
		} else {
			s.AssertOK()
		}
		assert.Equal(t, i, s.OKCount()+s.FailCount())
		assert.Len(t, s.Checks(), i)
	}
}

func TestFailSoft_RunContinuesAfterFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, out := newTestSession(t)
	s.Get(server.URL)
	s.AssertCode(500)
	s.Get(server.URL)
	s.AssertCode(200)

	assert.Equal(t, 1, s.OKCount())
	assert.Equal(t, 1, s.FailCount())
	assert.Contains(t, out.String(), "[FAIL]")
	assert.Contains(t, out.String(), "[ OK ]")
}
