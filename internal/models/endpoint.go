package models

import (
	"fmt"
	"time"
)

type CheckKind string

const (
	CheckKindPing        CheckKind = "ping"
	CheckKindPort        CheckKind = "port"
	CheckKindHTTP        CheckKind = "http"
	CheckKindHTTPKeyword CheckKind = "http_keyword"
)

type EndpointStatus string

const (
	StatusUnknown EndpointStatus = "unknown"
	StatusOnline  EndpointStatus = "online"
	StatusOffline EndpointStatus = "offline"
)

type Origin string

const (
	OriginManual Origin = "manual"
	OriginSynced Origin = "synced"
)

// NoPort is the sentinel token used for endpoints without a port,
// both in the remote feed and in address:port index keys.
const NoPort = "noport"

type Endpoint struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Address    string         `json:"address"`
	Port       *int           `json:"port,omitempty"`
	CheckKind  CheckKind      `json:"check_kind"`
	Keyword    string         `json:"keyword,omitempty"`
	CategoryID *string        `json:"category_id,omitempty"`
	Status     EndpointStatus `json:"status"`
	Monitored  bool           `json:"monitored"`
	Origin     Origin         `json:"origin"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Key returns the address:port index key used by reconciliation.
func (e *Endpoint) Key() string {
	return AddressKey(e.Address, e.Port)
}

// PortLabel renders the port for logs and notifications.
func (e *Endpoint) PortLabel() string {
	if e.Port == nil {
		return NoPort
	}
	return fmt.Sprintf("%d", *e.Port)
}

func AddressKey(address string, port *int) string {
	if port == nil {
		return fmt.Sprintf("%s:%s", address, NoPort)
	}
	return fmt.Sprintf("%s:%d", address, *port)
}
