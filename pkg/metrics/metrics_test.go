package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors_Count(t *testing.T) {
	// Arrange
	c := New()

	// Act
	c.AuthRejected("no_token")
	c.AuthRejected("no_token")
	c.FriendRequest("send", "ok")
	c.ChatSync("onboarding", false)

	// Assert
	if got := testutil.ToFloat64(c.authRejections.WithLabelValues("no_token")); got != 2 {
		t.Errorf("auth rejections = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.friendRequests.WithLabelValues("send", "ok")); got != 1 {
		t.Errorf("friend requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.chatSync.WithLabelValues("onboarding", "failed")); got != 1 {
		t.Errorf("chat sync failures = %v, want 1", got)
	}
}

func TestCollectors_NilSafe(t *testing.T) {
	var c *Collectors

	c.AuthRejected("x")
	c.FriendRequest("send", "ok")
	c.ChatSync("signup", true)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil collectors handler status = %d, want 404", rec.Code)
	}
}

func TestCollectors_Handler(t *testing.T) {
	c := New()
	c.AuthRejected("invalid_token")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `linguachat_auth_rejections_total{reason="invalid_token"} 1`) {
		t.Errorf("metrics output missing auth rejection counter:\n%s", rec.Body.String())
	}
}
