package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"NetWatch/internal/config"
	"NetWatch/internal/models"
)

func feedServer(t *testing.T, list map[string]map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostFormValue("username") != "tomas" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "ok"})
	})
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("session"); err != nil || cookie.Value != "ok" {
			http.Error(w, "no session", http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(list)
	})

	return httptest.NewServer(mux)
}

func feedConfig(ts *httptest.Server) *config.FeedConfig {
	return &config.FeedConfig{
		LoginURL: ts.URL + "/login",
		ListURL:  ts.URL + "/list",
		Username: "tomas",
		Password: "secret",
	}
}

func findRemote(endpoints []models.RemoteEndpoint, name string) *models.RemoteEndpoint {
	for i := range endpoints {
		if endpoints[i].Name == name {
			return &endpoints[i]
		}
	}
	return nil
}

func TestFeedClientFetch(t *testing.T) {
	ts := feedServer(t, map[string]map[string]string{
		"web": {
			"1.2.3.4:80": "Site A",
		},
		"ns": {
			"ns1.internal:noport": "NS 1",
		},
	})
	defer ts.Close()

	client := NewFeedClient(feedConfig(ts), nil)

	endpoints, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("endpoint count = %d, want 2", len(endpoints))
	}

	site := findRemote(endpoints, "Site A")
	if site == nil {
		t.Fatal("Site A missing from parsed feed")
	}
	if site.Address != "1.2.3.4" || site.Port == nil || *site.Port != 80 || site.Category != "web" {
		t.Errorf("Site A parsed as %+v", site)
	}

	ns := findRemote(endpoints, "NS 1")
	if ns == nil {
		t.Fatal("NS 1 missing from parsed feed")
	}
	if ns.Port != nil {
		t.Errorf("noport entry parsed with port %d", *ns.Port)
	}
	if ns.Key() != "ns1.internal:noport" {
		t.Errorf("key = %q, want the noport sentinel", ns.Key())
	}
}

func TestFeedClientSkipsMalformedEntries(t *testing.T) {
	ts := feedServer(t, map[string]map[string]string{
		"web": {
			"1.2.3.4:80":      "Good",
			"broken-entry":    "No port suffix",
			"1.2.3.4:badport": "Bad port",
		},
	})
	defer ts.Close()

	client := NewFeedClient(feedConfig(ts), nil)

	endpoints, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(endpoints) != 1 || endpoints[0].Name != "Good" {
		t.Errorf("parsed %+v, want only the well-formed entry", endpoints)
	}
}

func TestFeedClientRejectsEmptyFeed(t *testing.T) {
	ts := feedServer(t, map[string]map[string]string{})
	defer ts.Close()

	client := NewFeedClient(feedConfig(ts), nil)

	if _, err := client.Fetch(context.Background()); !errors.Is(err, ErrEmptyFeed) {
		t.Errorf("err = %v, want ErrEmptyFeed", err)
	}
}

func TestFeedClientLoginFailure(t *testing.T) {
	ts := feedServer(t, nil)
	defer ts.Close()

	cfg := feedConfig(ts)
	cfg.Username = "wrong"
	client := NewFeedClient(cfg, nil)

	if _, err := client.Fetch(context.Background()); !errors.Is(err, ErrLoginFailed) {
		t.Errorf("err = %v, want ErrLoginFailed", err)
	}
}

func TestFeedClientUnavailableList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewFeedClient(feedConfig(ts), nil)

	if _, err := client.Fetch(context.Background()); !errors.Is(err, ErrFeedUnavailable) {
		t.Errorf("err = %v, want ErrFeedUnavailable", err)
	}
}

func TestSplitAddressKey(t *testing.T) {
	tests := []struct {
		key     string
		address string
		port    int // 0 means nil expected
		wantErr bool
	}{
		{"1.2.3.4:80", "1.2.3.4", 80, false},
		{"host.example.com:noport", "host.example.com", 0, false},
		{"bare-host", "", 0, true},
		{"host:", "", 0, true},
		{"host:70000", "", 0, true},
	}

	for _, tt := range tests {
		address, port, err := splitAddressKey(tt.key)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitAddressKey(%q) expected error", tt.key)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitAddressKey(%q) failed: %v", tt.key, err)
			continue
		}
		if address != tt.address {
			t.Errorf("splitAddressKey(%q) address = %q, want %q", tt.key, address, tt.address)
		}
		if tt.port == 0 && port != nil {
			t.Errorf("splitAddressKey(%q) port = %d, want nil", tt.key, *port)
		}
		if tt.port != 0 && (port == nil || *port != tt.port) {
			t.Errorf("splitAddressKey(%q) port = %v, want %d", tt.key, port, tt.port)
		}
	}
}
