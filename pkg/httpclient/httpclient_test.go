package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientGetSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/rss+xml" {
			t.Errorf("Accept header = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != defaultUserAgent {
			t.Errorf("User-Agent header = %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Get(context.Background(), srv.URL, map[string]string{"Accept": "application/rss+xml"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot || string(resp.Body()) != "body" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode(), resp.Body())
	}
}

func TestNewHostLimiterDisabled(t *testing.T) {
	if l := NewHostLimiter(0); l != nil {
		t.Fatalf("expected nil limiter for zero interval")
	}
	var l *HostLimiter
	if err := l.Wait(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("nil limiter should not block: %v", err)
	}
}

func TestHostLimiterSpacesRequestsPerHost(t *testing.T) {
	l := NewHostLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "https://example.com/feed"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Fatalf("expected pacing on one host, elapsed %v", elapsed)
	}

	start = time.Now()
	if err := l.Wait(ctx, "https://other.example/feed"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Fatalf("other host should not wait, elapsed %v", elapsed)
	}
}

func TestHostLimiterRespectsContext(t *testing.T) {
	l := NewHostLimiter(time.Hour)
	if err := l.Wait(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "https://example.com"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestHostLimiterRejectsHostlessURL(t *testing.T) {
	l := NewHostLimiter(time.Millisecond)
	if err := l.Wait(context.Background(), "/relative"); err == nil {
		t.Fatalf("expected error for url without host")
	}
}
