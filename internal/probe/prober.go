package probe

import (
	"context"
	"strings"

	"NetWatch/internal/models"
)

// Prober performs a single reachability test for one endpoint.
// A probe never returns an error: every transport failure, timeout or
// unexpected response degrades to false.
type Prober interface {
	Probe(ctx context.Context, ep *models.Endpoint) bool
}

// Dispatcher resolves the prober for an endpoint, applying the
// pre-dispatch normalization rules before the per-kind choice.
type Dispatcher interface {
	For(ep *models.Endpoint) Prober
}

type Factory struct {
	ping    *PingProber
	port    *PortProber
	http    *HTTPProber
	keyword *KeywordProber
}

func NewFactory() *Factory {
	ping := NewPingProber()
	http := NewHTTPProber()
	return &Factory{
		ping:    ping,
		port:    NewPortProber(ping),
		http:    http,
		keyword: NewKeywordProber(http),
	}
}

// For picks the prober for an endpoint. Port 80 always probes over HTTP
// (keyword variant when configured); a missing port always degrades to
// ping; everything else dispatches strictly on the configured kind.
func (f *Factory) For(ep *models.Endpoint) Prober {
	if ep.Port != nil && *ep.Port == 80 {
		if ep.CheckKind == models.CheckKindHTTPKeyword {
			return f.keyword
		}
		return f.http
	}

	if ep.Port == nil {
		return f.ping
	}

	switch ep.CheckKind {
	case models.CheckKindPing:
		return f.ping
	case models.CheckKindPort:
		return f.port
	case models.CheckKindHTTP:
		return f.http
	case models.CheckKindHTTPKeyword:
		return f.keyword
	default:
		return f.ping
	}
}

// cleanAddress strips any protocol prefix before the transport-level probes.
func cleanAddress(address string) string {
	address = strings.TrimPrefix(address, "http://")
	address = strings.TrimPrefix(address, "https://")
	return strings.TrimSuffix(address, "/")
}
