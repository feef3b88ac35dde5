package handlers

import (
	"log/slog"

	"NetWatch/internal/dependencies"
	"NetWatch/internal/services"
	"NetWatch/internal/storage"
)

type Handlers struct {
	endpointStore   storage.EndpointStore
	categoryStore   storage.CategoryStore
	transitionStore storage.TransitionStore
	syncService     *services.SyncService
	logger          *slog.Logger
}

func NewHandlers(container *dependencies.Container) *Handlers {
	return &Handlers{
		endpointStore:   container.EndpointStore,
		categoryStore:   container.CategoryStore,
		transitionStore: container.TransitionStore,
		syncService:     container.SyncService,
		logger:          slog.Default(),
	}
}
