package storage

import (
	"context"
	"time"

	"NetWatch/internal/models"
)

// EndpointStore is the persisted endpoint catalog. The status column is
// written only through UpdateStatus, which belongs to the health engine.
type EndpointStore interface {
	Create(ctx context.Context, endpoint *models.Endpoint) error
	GetByID(ctx context.Context, id string) (*models.Endpoint, error)
	List(ctx context.Context) ([]*models.Endpoint, error)
	ListMonitored(ctx context.Context) ([]*models.Endpoint, error)
	Update(ctx context.Context, endpoint *models.Endpoint) error
	UpdateStatus(ctx context.Context, id string, status models.EndpointStatus) error
	Delete(ctx context.Context, id string) error
}

type CategoryStore interface {
	Upsert(ctx context.Context, name, description string) (*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Delete(ctx context.Context, id string) error
}

// TransitionStore holds the append-only uptime history.
type TransitionStore interface {
	Create(ctx context.Context, transition *models.StatusTransition) error
	ListByEndpoint(ctx context.Context, endpointID string, from, to time.Time, limit int) ([]*models.StatusTransition, error)
}
