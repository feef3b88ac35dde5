package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"NetWatch/internal/models"
)

const maxBodyBytes = 1 << 20

type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					// Self-signed certificates on internal hosts must not
					// read as an outage.
					InsecureSkipVerify: true,
				},
				MaxIdleConns:    100,
				IdleConnTimeout: 90 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Probe issues a GET and reports success iff the status is exactly 200.
func (p *HTTPProber) Probe(ctx context.Context, ep *models.Endpoint) bool {
	resp, ok := p.get(ctx, ep)
	if !ok {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("http probe got non-200 status",
			"address", ep.Address,
			"status", resp.StatusCode,
		)
		return false
	}

	return true
}

func (p *HTTPProber) get(ctx context.Context, ep *models.Endpoint) (*http.Response, bool) {
	url := buildURL(ep.Address, ep.Port)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Debug("http probe request build failed", "url", url, "error", err)
		return nil, false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("http probe failed", "url", url, "error", err)
		return nil, false
	}

	return resp, true
}

type KeywordProber struct {
	http *HTTPProber
}

func NewKeywordProber(http *HTTPProber) *KeywordProber {
	return &KeywordProber{http: http}
}

// Probe issues the same GET as HTTPProber; on a 200 it additionally
// requires the configured keyword as a case-folded substring of the body.
func (p *KeywordProber) Probe(ctx context.Context, ep *models.Endpoint) bool {
	resp, ok := p.http.get(ctx, ep)
	if !ok {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("keyword probe got non-200 status",
			"address", ep.Address,
			"status", resp.StatusCode,
		)
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		slog.Debug("keyword probe body read failed", "address", ep.Address, "error", err)
		return false
	}

	found := strings.Contains(strings.ToLower(string(body)), strings.ToLower(ep.Keyword))
	if !found {
		slog.Debug("keyword probe keyword not found",
			"address", ep.Address,
			"keyword", ep.Keyword,
		)
	}

	return found
}

// buildURL applies the scheme rule: port 80 forces http, 443 forces
// https, otherwise the scheme already present on the address wins
// (default http). The port is appended only when present and not 80/443.
func buildURL(address string, port *int) string {
	var scheme string
	switch {
	case port != nil && *port == 80:
		scheme = "http"
	case port != nil && *port == 443:
		scheme = "https"
	case strings.HasPrefix(address, "https://"):
		scheme = "https"
	default:
		scheme = "http"
	}

	url := fmt.Sprintf("%s://%s", scheme, cleanAddress(address))
	if port != nil && *port != 80 && *port != 443 {
		url = fmt.Sprintf("%s:%d", url, *port)
	}

	return url
}
