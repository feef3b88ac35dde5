package validator

import (
	"net"
	"net/url"
	"strings"
)

func ValidateCheckKind(kind string) bool {
	validKinds := map[string]bool{
		"ping":         true,
		"port":         true,
		"http":         true,
		"http_keyword": true,
	}
	return validKinds[kind]
}

// ValidateAddress accepts a bare host, an IP, a host:port pair, or an
// http(s) URL. A scheme other than http/https is rejected.
func ValidateAddress(address string) bool {
	if address == "" {
		return false
	}

	if _, _, err := net.SplitHostPort(address); err == nil {
		return true
	}

	if u, err := url.Parse(address); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return true
	}

	return !strings.Contains(address, "://")
}

func ValidatePort(port *int) bool {
	if port == nil {
		return true
	}
	return *port >= 1 && *port <= 65535
}
