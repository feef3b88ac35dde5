package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NetWatch/internal/clients"
	"NetWatch/internal/models"
	"NetWatch/internal/storage"
)

// SyncService is the inventory reconciliation engine: every interval it
// fetches the authoritative remote endpoint list and aligns the store
// with it, leaving manually curated endpoints untouched.
type SyncService struct {
	feed          clients.Feed
	endpointStore storage.EndpointStore
	categoryStore storage.CategoryStore
	notifier      Notifier
	interval      time.Duration
	logger        *slog.Logger
}

type SyncServiceConfig struct {
	SyncInterval time.Duration
}

func NewSyncService(
	feed clients.Feed,
	endpointStore storage.EndpointStore,
	categoryStore storage.CategoryStore,
	notifier Notifier,
	cfg SyncServiceConfig,
	logger *slog.Logger,
) *SyncService {

	interval := cfg.SyncInterval
	if interval == 0 {
		interval = 5 * time.Minute
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SyncService{
		feed:          feed,
		endpointStore: endpointStore,
		categoryStore: categoryStore,
		notifier:      notifier,
		interval:      interval,
		logger:        logger,
	}
}

// Run executes reconciliation cycles until the context is cancelled. A
// failed cycle is logged and retried on the next tick, no backoff.
func (s *SyncService) Run(ctx context.Context) error {
	s.logger.Info("inventory sync engine started", "interval", s.interval)

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("inventory sync cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("inventory sync engine stopped")
			return nil
		case <-time.After(s.interval):
		}
	}
}

// RunOnce fetches the remote list and reconciles the store against it.
// It returns the applied changes, empty when the cycle was a no-op, and
// doubles as the manual trigger for the request layer.
func (s *SyncService) RunOnce(ctx context.Context) ([]models.Change, error) {
	remote, err := s.feed.Fetch(ctx)
	if err != nil {
		_ = s.notifier.Notify(ctx, fmt.Sprintf("❌ Inventory sync failed: %v", err))
		return nil, fmt.Errorf("failed to fetch remote inventory: %w", err)
	}

	categories, err := s.ensureCategories(ctx, remote)
	if err != nil {
		return nil, err
	}

	local, err := s.endpointStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list local endpoints: %w", err)
	}

	localByKey := make(map[string]*models.Endpoint, len(local))
	for _, ep := range local {
		localByKey[ep.Key()] = ep
	}

	var changes []models.Change

	remoteKeys := make(map[string]struct{}, len(remote))
	for i := range remote {
		r := &remote[i]
		remoteKeys[r.Key()] = struct{}{}

		ep, exists := localByKey[r.Key()]
		if !exists {
			changes = s.appendChange(ctx, changes, s.createEndpoint(ctx, r, categories))
			continue
		}

		// Manually curated endpoints are immutable to this process.
		if ep.Origin != models.OriginSynced {
			continue
		}

		changes = s.appendChange(ctx, changes, s.updateEndpoint(ctx, ep, r, categories))
	}

	for key, ep := range localByKey {
		if _, present := remoteKeys[key]; present {
			continue
		}
		if ep.Origin != models.OriginSynced {
			continue
		}
		changes = s.appendChange(ctx, changes, s.removeEndpoint(ctx, ep))
	}

	if len(changes) > 0 {
		s.logger.Info("inventory sync applied changes", "count", len(changes))
	} else {
		s.logger.Debug("inventory sync found no changes")
	}

	return changes, nil
}

func (s *SyncService) ensureCategories(ctx context.Context, remote []models.RemoteEndpoint) (map[string]string, error) {
	categories := make(map[string]string)

	for i := range remote {
		name := remote[i].Category
		if _, done := categories[name]; done {
			continue
		}

		category, err := s.categoryStore.Upsert(ctx, name, fmt.Sprintf("%s servers", name))
		if err != nil {
			return nil, fmt.Errorf("failed to ensure category %s: %w", name, err)
		}
		categories[name] = category.ID
	}

	return categories, nil
}

func (s *SyncService) createEndpoint(ctx context.Context, r *models.RemoteEndpoint, categories map[string]string) *models.Change {
	checkKind := models.CheckKindPing
	if r.Port != nil {
		checkKind = models.CheckKindPort
	}

	endpoint := &models.Endpoint{
		Name:      r.Name,
		Address:   r.Address,
		Port:      r.Port,
		CheckKind: checkKind,
		Status:    models.StatusUnknown,
		Monitored: true,
		Origin:    models.OriginSynced,
	}
	if id, ok := categories[r.Category]; ok {
		endpoint.CategoryID = &id
	}

	if err := s.endpointStore.Create(ctx, endpoint); err != nil {
		s.logger.Error("failed to create synced endpoint",
			"name", r.Name,
			"address", r.Address,
			"error", err,
		)
		return nil
	}

	return &models.Change{
		Kind: models.ChangeAdded,
		Message: fmt.Sprintf("➕ New endpoint added:\nName: %s\nCategory: %s\nAddress: %s",
			endpoint.Name, r.Category, endpoint.Key()),
	}
}

func (s *SyncService) updateEndpoint(ctx context.Context, ep *models.Endpoint, r *models.RemoteEndpoint, categories map[string]string) *models.Change {
	categoryID, hasCategory := categories[r.Category]

	sameName := ep.Name == r.Name
	sameCategory := !hasCategory || (ep.CategoryID != nil && *ep.CategoryID == categoryID)
	if sameName && sameCategory {
		return nil
	}

	oldName := ep.Name
	ep.Name = r.Name
	if hasCategory {
		ep.CategoryID = &categoryID
	}

	if err := s.endpointStore.Update(ctx, ep); err != nil {
		s.logger.Error("failed to update synced endpoint",
			"name", r.Name,
			"address", r.Address,
			"error", err,
		)
		return nil
	}

	return &models.Change{
		Kind: models.ChangeUpdated,
		Message: fmt.Sprintf("🔄 Endpoint configuration changed:\nName: %s → %s\nCategory: %s\nAddress: %s",
			oldName, ep.Name, r.Category, ep.Key()),
	}
}

func (s *SyncService) removeEndpoint(ctx context.Context, ep *models.Endpoint) *models.Change {
	if err := s.endpointStore.Delete(ctx, ep.ID); err != nil {
		s.logger.Error("failed to delete synced endpoint",
			"name", ep.Name,
			"address", ep.Address,
			"error", err,
		)
		return nil
	}

	return &models.Change{
		Kind: models.ChangeRemoved,
		Message: fmt.Sprintf("❌ Endpoint removed:\nName: %s\nAddress: %s",
			ep.Name, ep.Key()),
	}
}

// appendChange records a change and pushes its notification. A nil
// change means the step failed or was a no-op and stays silent.
func (s *SyncService) appendChange(ctx context.Context, changes []models.Change, change *models.Change) []models.Change {
	if change == nil {
		return changes
	}

	s.logger.Info("inventory change", "kind", change.Kind, "message", change.Message)
	_ = s.notifier.Notify(ctx, change.Message)

	return append(changes, *change)
}
