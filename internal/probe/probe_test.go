package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"NetWatch/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func TestFactoryDispatch(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		name     string
		endpoint models.Endpoint
		want     Prober
	}{
		{
			name:     "port 80 overrides configured ping kind",
			endpoint: models.Endpoint{Port: intPtr(80), CheckKind: models.CheckKindPing},
			want:     f.http,
		},
		{
			name:     "port 80 with keyword kind picks keyword prober",
			endpoint: models.Endpoint{Port: intPtr(80), CheckKind: models.CheckKindHTTPKeyword},
			want:     f.keyword,
		},
		{
			name:     "missing port degrades to ping regardless of kind",
			endpoint: models.Endpoint{Port: nil, CheckKind: models.CheckKindHTTP},
			want:     f.ping,
		},
		{
			name:     "other ports dispatch on kind: port",
			endpoint: models.Endpoint{Port: intPtr(8080), CheckKind: models.CheckKindPort},
			want:     f.port,
		},
		{
			name:     "other ports dispatch on kind: http",
			endpoint: models.Endpoint{Port: intPtr(8443), CheckKind: models.CheckKindHTTP},
			want:     f.http,
		},
		{
			name:     "other ports dispatch on kind: ping",
			endpoint: models.Endpoint{Port: intPtr(9000), CheckKind: models.CheckKindPing},
			want:     f.ping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.For(&tt.endpoint); got != tt.want {
				t.Errorf("For() picked %T, want %T", got, tt.want)
			}
		})
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		address string
		port    *int
		want    string
	}{
		{"port 80 forces http without suffix", "example.com", intPtr(80), "http://example.com"},
		{"port 443 forces https without suffix", "https://example.com", intPtr(443), "https://example.com"},
		{"port 443 forces https even on http address", "http://example.com", intPtr(443), "https://example.com"},
		{"other port is appended", "example.com", intPtr(8080), "http://example.com:8080"},
		{"https prefix survives on other ports", "https://example.com", intPtr(8443), "https://example.com:8443"},
		{"no port no suffix", "example.com", nil, "http://example.com"},
		{"prefix is stripped from host part", "http://example.com", intPtr(8080), "http://example.com:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildURL(tt.address, tt.port); got != tt.want {
				t.Errorf("buildURL(%q, %v) = %q, want %q", tt.address, tt.port, got, tt.want)
			}
		})
	}
}

func testServerEndpoint(t *testing.T, ts *httptest.Server, kind models.CheckKind, keyword string) *models.Endpoint {
	t.Helper()

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("failed to parse test server port: %v", err)
	}

	return &models.Endpoint{
		Name:      "test",
		Address:   u.Hostname(),
		Port:      &port,
		CheckKind: kind,
		Keyword:   keyword,
	}
}

func TestHTTPProberSuccessOnlyOn200(t *testing.T) {
	prober := NewHTTPProber()

	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer okServer.Close()

	if !prober.Probe(context.Background(), testServerEndpoint(t, okServer, models.CheckKindHTTP, "")) {
		t.Error("expected success for status 200")
	}

	redirectTarget := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer redirectTarget.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, redirectTarget.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	if !prober.Probe(context.Background(), testServerEndpoint(t, redirecting, models.CheckKindHTTP, "")) {
		t.Error("expected success when a redirect lands on 200")
	}

	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	if prober.Probe(context.Background(), testServerEndpoint(t, notFound, models.CheckKindHTTP, "")) {
		t.Error("expected failure for status 404")
	}
}

func TestHTTPProberUnreachableIsFalse(t *testing.T) {
	prober := NewHTTPProber()

	port := 1 // nothing listens there
	ep := &models.Endpoint{Address: "127.0.0.1", Port: &port, CheckKind: models.CheckKindHTTP}

	if prober.Probe(context.Background(), ep) {
		t.Error("expected failure for unreachable host")
	}
}

func TestKeywordProber(t *testing.T) {
	prober := NewKeywordProber(NewHTTPProber())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Service HEALTHY and running</body></html>"))
	}))
	defer ts.Close()

	if !prober.Probe(context.Background(), testServerEndpoint(t, ts, models.CheckKindHTTPKeyword, "healthy")) {
		t.Error("expected keyword match to be case-insensitive")
	}

	if prober.Probe(context.Background(), testServerEndpoint(t, ts, models.CheckKindHTTPKeyword, "degraded")) {
		t.Error("expected failure when keyword is absent")
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("healthy")) // keyword present but status is not 200
	}))
	defer failing.Close()

	if prober.Probe(context.Background(), testServerEndpoint(t, failing, models.CheckKindHTTPKeyword, "healthy")) {
		t.Error("expected failure on non-200 even when the body matches")
	}
}

func TestPortProber(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to open listener: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	prober := NewPortProber(NewPingProber())

	ep := &models.Endpoint{Address: "127.0.0.1", Port: &port, CheckKind: models.CheckKindPort}
	if !prober.Probe(context.Background(), ep) {
		t.Error("expected success for open port")
	}

	closedPort := 1
	closed := &models.Endpoint{Address: "127.0.0.1", Port: &closedPort, CheckKind: models.CheckKindPort}
	if prober.Probe(context.Background(), closed) {
		t.Error("expected failure for closed port")
	}
}

func TestCleanAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com", "example.com"},
		{"https://example.com/", "example.com"},
		{"example.com", "example.com"},
	}

	for _, tt := range tests {
		if got := cleanAddress(tt.in); got != tt.want {
			t.Errorf("cleanAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
