package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"NetWatch/internal/models"
	"NetWatch/internal/probe"
	"NetWatch/internal/storage"
)

// Notifier is the engines' view of the notification sink. Delivery is
// fire-and-forget: both engines discard the returned error.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// HealthService is the health-check engine: every interval it probes all
// monitored endpoints, runs each result through the status state
// machine, persists transitions and pushes notifications on change.
type HealthService struct {
	endpointStore   storage.EndpointStore
	transitionStore storage.TransitionStore
	notifier        Notifier
	prober          probe.Dispatcher
	interval        time.Duration
	maxConcurrent   int
	logger          *slog.Logger

	// previous holds the last observed status per endpoint id. It is
	// process-local and reset here at construction, so after a restart
	// every endpoint behaves as a first observation for one cycle.
	previous map[string]models.EndpointStatus
}

type HealthServiceConfig struct {
	CheckInterval       time.Duration
	MaxConcurrentProbes int
}

func NewHealthService(
	endpointStore storage.EndpointStore,
	transitionStore storage.TransitionStore,
	notifier Notifier,
	prober probe.Dispatcher,
	cfg HealthServiceConfig,
	logger *slog.Logger,
) *HealthService {

	interval := cfg.CheckInterval
	if interval == 0 {
		interval = 5 * time.Second
	}

	maxConcurrent := cfg.MaxConcurrentProbes
	if maxConcurrent < 1 {
		maxConcurrent = 16
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		endpointStore:   endpointStore,
		transitionStore: transitionStore,
		notifier:        notifier,
		prober:          prober,
		interval:        interval,
		maxConcurrent:   maxConcurrent,
		logger:          logger,
		previous:        make(map[string]models.EndpointStatus),
	}
}

// Run executes check cycles until the context is cancelled. The sleep
// starts after a cycle fully completes, so an overrun cycle compresses
// the idle time but cycles never overlap.
func (s *HealthService) Run(ctx context.Context) error {
	s.logger.Info("health check engine started", "interval", s.interval)

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("health check engine stopped")
			return nil
		case <-time.After(s.interval):
		}
	}
}

// runCycle probes every monitored endpoint concurrently, then applies
// the state machine and commits sequentially once all probes resolved.
// A failure for one endpoint never aborts the cycle for the others.
func (s *HealthService) runCycle(ctx context.Context) {
	endpoints, err := s.endpointStore.ListMonitored(ctx)
	if err != nil {
		s.logger.Error("failed to list monitored endpoints", "error", err)
		return
	}

	if len(endpoints) == 0 {
		return
	}

	verdicts := make([]bool, len(endpoints))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.maxConcurrent)

	for i, ep := range endpoints {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, ep *models.Endpoint) {
			defer wg.Done()
			defer func() { <-sem }()
			verdicts[i] = s.probeOne(ctx, ep)
		}(i, ep)
	}

	wg.Wait()

	for i, ep := range endpoints {
		s.applyVerdict(ctx, ep, verdicts[i])
	}
}

// probeOne runs the dispatched probe for one endpoint. A panic inside a
// probe counts as a negative verdict, not a dead cycle.
func (s *HealthService) probeOne(ctx context.Context, ep *models.Endpoint) (online bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("probe panicked",
				"endpoint", ep.Name,
				"address", ep.Address,
				"panic", r,
			)
			online = false
		}
	}()

	return s.prober.For(ep).Probe(ctx, ep)
}

// applyVerdict runs the per-endpoint state machine: silent on first
// observation and on unchanged status, one transition record plus one
// notification on change, status persisted on every branch.
func (s *HealthService) applyVerdict(ctx context.Context, ep *models.Endpoint, online bool) {
	newStatus := models.StatusOffline
	if online {
		newStatus = models.StatusOnline
	}

	prev, seen := s.previous[ep.ID]
	changed := seen && prev != newStatus && prev != models.StatusUnknown

	if changed {
		s.recordTransition(ctx, ep, prev, newStatus)
	}

	if err := s.endpointStore.UpdateStatus(ctx, ep.ID, newStatus); err != nil {
		s.logger.Error("failed to persist endpoint status",
			"endpoint", ep.Name,
			"status", newStatus,
			"error", err,
		)
		// Keep the cache on the old value so the change fires again next
		// cycle instead of being lost.
		return
	}

	s.previous[ep.ID] = newStatus
}

func (s *HealthService) recordTransition(ctx context.Context, ep *models.Endpoint, from, to models.EndpointStatus) {
	transition := &models.StatusTransition{
		EndpointID: ep.ID,
		Status:     to,
		CreatedAt:  time.Now(),
	}

	if err := s.transitionStore.Create(ctx, transition); err != nil {
		s.logger.Error("failed to record status transition",
			"endpoint", ep.Name,
			"status", to,
			"error", err,
		)
	}

	s.logger.Info("endpoint status changed",
		"endpoint", ep.Name,
		"address", ep.Address,
		"port", ep.PortLabel(),
		"from", from,
		"to", to,
	)

	_ = s.notifier.Notify(ctx, transitionMessage(ep, from, to))
}

func transitionMessage(ep *models.Endpoint, from, to models.EndpointStatus) string {
	marker := "✅"
	if to == models.StatusOffline {
		marker = "🚨"
	}

	return fmt.Sprintf("%s *Endpoint %s (%s:%s) went %s → %s*",
		marker, ep.Name, ep.Address, ep.PortLabel(), from, to)
}
