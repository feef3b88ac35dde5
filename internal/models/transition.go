package models

import "time"

// StatusTransition is an append-only record of an observed status change.
// Rows are created by the health engine only and never updated.
type StatusTransition struct {
	ID         string         `json:"id"`
	EndpointID string         `json:"endpoint_id"`
	Status     EndpointStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// Change describes one reconciliation mutation, in the order it was applied.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Message string     `json:"message"`
}

// RemoteEndpoint is one tuple from the authoritative inventory feed.
type RemoteEndpoint struct {
	Name     string
	Address  string
	Port     *int
	Category string
}

func (r *RemoteEndpoint) Key() string {
	return AddressKey(r.Address, r.Port)
}
