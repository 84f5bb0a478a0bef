package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewIsolated(t *testing.T) {
	// Two instances must not collide on registration.
	a := New("test", "go1.24")
	b := New("test", "go1.24")

	a.ShortcodesTotal.WithLabelValues("tabs", "ok").Inc()
	if got := testutil.ToFloat64(a.ShortcodesTotal.WithLabelValues("tabs", "ok")); got != 1 {
		t.Errorf("a counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.ShortcodesTotal.WithLabelValues("tabs", "ok")); got != 0 {
		t.Errorf("b counter = %v, want 0", got)
	}
}

func TestHandler(t *testing.T) {
	m := New("v1.2.3", "go1.24")
	m.FetchTotal.WithLabelValues("hit").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`daanotes_info{go_version="go1.24",version="v1.2.3"} 1`,
		`daanotes_content_fetch_total{result="hit"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
