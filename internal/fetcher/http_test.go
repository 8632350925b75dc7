package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmno/post2osm/internal/resilience"
)

func fastRetry(attempts int) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
		Retry:     fastRetry(3),
	})
}

func readAll(t *testing.T, body io.ReadCloser) string {
	t.Helper()
	defer body.Close() //nolint:errcheck
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	return string(data)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL+"/data")
	require.NoError(t, err)
	assert.Equal(t, "hello world", readAll(t, body))
}

func TestDownload_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("success"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL+"/retry")
	require.NoError(t, err)
	assert.Equal(t, "success", readAll(t, body))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDownload_RetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Retry: fastRetry(2)})
	_, err := f.Download(context.Background(), srv.URL+"/fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
	assert.True(t, resilience.IsTransient(err))
	assert.Equal(t, int32(2), attempts.Load())
}

func TestDownload_NotFoundIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDownload_NetworkErrorRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 2 {
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, _ := hj.Hijack()
				conn.Close() //nolint:errcheck
				return
			}
		}
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL+"/net-err")
	require.NoError(t, err)
	assert.Equal(t, "ok", readAll(t, body))
	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
}

func TestDownload_InvalidURL(t *testing.T) {
	_, err := newTestFetcher().Download(context.Background(), "://invalid-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create request")
}

func TestDownload_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher().Download(ctx, srv.URL+"/data")
	require.Error(t, err)
}

func TestDownload_AdaptiveLimiterPacesRequests(t *testing.T) {
	var reqTimes []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqTimes = append(reqTimes, time.Now())
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	f.adaptiveLimiters[srv.Listener.Addr().String()] = NewAdaptiveLimiter(4, 1)

	for range 3 {
		body, err := f.Download(context.Background(), srv.URL+"/limited")
		require.NoError(t, err)
		body.Close()
	}

	// Roughly 4 req/s with burst 1: three requests span at least ~400ms.
	require.Len(t, reqTimes, 3)
	assert.GreaterOrEqual(t, reqTimes[2].Sub(reqTimes[0]).Milliseconds(), int64(300))
}

func TestDownload_UnknownHostIsNotLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	require.NotContains(t, f.adaptiveLimiters, srv.Listener.Addr().String())

	start := time.Now()
	for range 5 {
		body, err := f.Download(context.Background(), srv.URL+"/free")
		require.NoError(t, err)
		body.Close()
	}
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDownload_429LowersAdaptiveRate(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	u, _ := url.Parse(srv.URL)
	f.adaptiveLimiters[u.Host] = NewAdaptiveLimiter(100, 100)

	body, err := f.Download(context.Background(), srv.URL+"/data")
	require.NoError(t, err)
	assert.Equal(t, "ok", readAll(t, body))

	// 100 -> 50 -> 25 -> 30
	assert.InDelta(t, 30.0, float64(f.adaptiveLimiters[u.Host].Limit()), 0.1)
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Equal(t, "post2osm/1.0", f.opts.UserAgent)
	assert.Equal(t, 120*time.Second, f.opts.Timeout)
	assert.Contains(t, f.adaptiveLimiters, PostenHost)
	assert.Contains(t, f.adaptiveLimiters, GeonorgeHost)
}

func TestAdaptiveLimiter(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*AdaptiveLimiter)
		want   float64
	}{
		{"success raises 20%", func(l *AdaptiveLimiter) { l.OnSuccess() }, 12},
		{"two successes", func(l *AdaptiveLimiter) { l.OnSuccess(); l.OnSuccess() }, 14.4},
		{"capped at 2x", func(l *AdaptiveLimiter) {
			for range 20 {
				l.OnSuccess()
			}
		}, 20},
		{"429 halves", func(l *AdaptiveLimiter) { l.OnRateLimit() }, 5},
		{"floored at quarter", func(l *AdaptiveLimiter) {
			for range 10 {
				l.OnRateLimit()
			}
		}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lim := NewAdaptiveLimiter(10, 10)
			tt.adjust(lim)
			assert.InDelta(t, tt.want, float64(lim.Limit()), 0.1)
		})
	}
}

func TestAdaptiveLimiter_WaitContextCancelled(t *testing.T) {
	lim := NewAdaptiveLimiter(0.001, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, lim.Wait(ctx))
}
