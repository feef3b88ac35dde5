package probe

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"NetWatch/internal/models"
)

type PingProber struct {
	timeout time.Duration
}

func NewPingProber() *PingProber {
	return &PingProber{
		timeout: 3 * time.Second,
	}
}

// Probe sends one ICMP echo through the system ping binary and reports
// success iff the process exits cleanly. The -W 2 packet wait is backed
// by a slightly longer context deadline so a wedged process cannot hold
// a cycle open.
func (p *PingProber) Probe(ctx context.Context, ep *models.Endpoint) bool {
	address := cleanAddress(ep.Address)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ping", "-c", "1", "-W", "2", address)
	if err := cmd.Run(); err != nil {
		slog.Debug("ping probe failed",
			"address", address,
			"error", err,
		)
		return false
	}

	return true
}
