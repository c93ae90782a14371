package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAllow_BurstThenRefill(t *testing.T) {
	clock := newMockClock()
	limiter := New(Config{Requests: 2, Window: time.Second, Clock: clock})
	defer limiter.Close()

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("203.0.113.5"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retry := limiter.Allow("203.0.113.5")
	if ok {
		t.Fatal("third request should be throttled")
	}
	if retry != 500*time.Millisecond {
		t.Fatalf("retry = %v, want 500ms", retry)
	}

	clock.Advance(500 * time.Millisecond)
	if ok, _ := limiter.Allow("203.0.113.5"); !ok {
		t.Fatal("request after refill should be allowed")
	}
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	clock := newMockClock()
	limiter := New(Config{Requests: 1, Window: time.Minute, Clock: clock})
	defer limiter.Close()

	if ok, _ := limiter.Allow("a"); !ok {
		t.Fatal("first client should be allowed")
	}
	if ok, _ := limiter.Allow("a"); ok {
		t.Fatal("first client should be throttled")
	}
	if ok, _ := limiter.Allow("b"); !ok {
		t.Fatal("second client should have its own bucket")
	}
}

func TestAllow_ExplicitBurst(t *testing.T) {
	clock := newMockClock()
	limiter := New(Config{Requests: 1, Window: time.Minute, Burst: 3, Clock: clock})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if ok, _ := limiter.Allow("c"); !ok {
			t.Fatalf("request %d should fit in burst", i+1)
		}
	}
	if ok, _ := limiter.Allow("c"); ok {
		t.Fatal("request past burst should be throttled")
	}
}

func TestCleanup_DropsIdleBuckets(t *testing.T) {
	clock := newMockClock()
	limiter := New(Config{Requests: 5, Window: time.Second, IdleTTL: time.Minute, Clock: clock})
	defer limiter.Close()

	limiter.Allow("old")
	clock.Advance(2 * time.Minute)
	limiter.Allow("fresh")

	limiter.cleanup()
	if got := limiter.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestGetClientIP_TrustProxy(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "TrustProxy=true, XFF rightmost public IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50",
		},
		{
			name:       "TrustProxy=true, XFF all private",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1",
		},
		{
			name:       "TrustProxy=true, X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "TrustProxy=false, ignores XFF",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.100",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			got := GetClientIP(r, tt.trustProxy)
			if got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
