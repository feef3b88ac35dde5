package probe

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"NetWatch/internal/models"
)

type PortProber struct {
	timeout time.Duration
	ping    *PingProber
}

func NewPortProber(ping *PingProber) *PortProber {
	return &PortProber{
		timeout: 5 * time.Second,
		ping:    ping,
	}
}

// Probe opens one TCP connection and immediately closes it. Endpoints
// without a port fall back to ping regardless of configured kind.
func (p *PortProber) Probe(ctx context.Context, ep *models.Endpoint) bool {
	if ep.Port == nil {
		return p.ping.Probe(ctx, ep)
	}

	address := net.JoinHostPort(cleanAddress(ep.Address), strconv.Itoa(*ep.Port))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		slog.Debug("port probe failed",
			"address", address,
			"error", err,
		)
		return false
	}
	conn.Close()

	return true
}
