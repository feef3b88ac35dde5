package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"NetWatch/internal/models"
	"NetWatch/internal/probe"
)

// fakeEndpointStore is an in-memory EndpointStore used by the engine tests.
type fakeEndpointStore struct {
	mu        sync.Mutex
	endpoints map[string]*models.Endpoint
	nextID    int

	failUpdateStatus bool
}

func newFakeEndpointStore() *fakeEndpointStore {
	return &fakeEndpointStore{endpoints: make(map[string]*models.Endpoint)}
}

func (s *fakeEndpointStore) Create(ctx context.Context, endpoint *models.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	endpoint.ID = fmt.Sprintf("ep-%d", s.nextID)
	endpoint.CreatedAt = time.Now()
	endpoint.UpdatedAt = time.Now()

	clone := *endpoint
	s.endpoints[endpoint.ID] = &clone
	return nil
}

func (s *fakeEndpointStore) GetByID(ctx context.Context, id string) (*models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	endpoint, ok := s.endpoints[id]
	if !ok {
		return nil, nil
	}
	clone := *endpoint
	return &clone, nil
}

func (s *fakeEndpointStore) List(ctx context.Context) ([]*models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Endpoint
	for _, endpoint := range s.endpoints {
		clone := *endpoint
		out = append(out, &clone)
	}
	return out, nil
}

func (s *fakeEndpointStore) ListMonitored(ctx context.Context) ([]*models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Endpoint
	for _, endpoint := range s.endpoints {
		if endpoint.Monitored {
			clone := *endpoint
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakeEndpointStore) Update(ctx context.Context, endpoint *models.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.endpoints[endpoint.ID]
	if !ok {
		return errors.New("endpoint not found")
	}

	status := existing.Status
	clone := *endpoint
	clone.Status = status
	clone.UpdatedAt = time.Now()
	s.endpoints[endpoint.ID] = &clone
	return nil
}

func (s *fakeEndpointStore) UpdateStatus(ctx context.Context, id string, status models.EndpointStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpdateStatus {
		return errors.New("store unavailable")
	}

	endpoint, ok := s.endpoints[id]
	if !ok {
		return errors.New("endpoint not found")
	}
	endpoint.Status = status
	return nil
}

func (s *fakeEndpointStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.endpoints, id)
	return nil
}

func (s *fakeEndpointStore) byKey(key string) *models.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, endpoint := range s.endpoints {
		if endpoint.Key() == key {
			clone := *endpoint
			return &clone
		}
	}
	return nil
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[string]*models.Category
	nextID     int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[string]*models.Category)}
}

func (s *fakeCategoryStore) Upsert(ctx context.Context, name, description string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, category := range s.categories {
		if category.Name == name {
			clone := *category
			return &clone, nil
		}
	}

	s.nextID++
	category := &models.Category{
		ID:          fmt.Sprintf("cat-%d", s.nextID),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
	s.categories[category.ID] = category

	clone := *category
	return &clone, nil
}

func (s *fakeCategoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	clone := *category
	return &clone, nil
}

func (s *fakeCategoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, category := range s.categories {
		if category.Name == name {
			clone := *category
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeCategoryStore) List(ctx context.Context) ([]*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Category
	for _, category := range s.categories {
		clone := *category
		out = append(out, &clone)
	}
	return out, nil
}

func (s *fakeCategoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, id)
	return nil
}

type fakeTransitionStore struct {
	mu          sync.Mutex
	transitions []*models.StatusTransition
}

func (s *fakeTransitionStore) Create(ctx context.Context, transition *models.StatusTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *transition
	s.transitions = append(s.transitions, &clone)
	return nil
}

func (s *fakeTransitionStore) ListByEndpoint(ctx context.Context, endpointID string, from, to time.Time, limit int) ([]*models.StatusTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.StatusTransition
	for _, transition := range s.transitions {
		if transition.EndpointID == endpointID {
			clone := *transition
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakeTransitionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transitions)
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Notify(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *fakeNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

// fakeFeed serves a scripted remote inventory.
type fakeFeed struct {
	endpoints []models.RemoteEndpoint
	err       error
}

func (f *fakeFeed) Fetch(ctx context.Context) ([]models.RemoteEndpoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.endpoints, nil
}

// scriptedProber returns pre-programmed verdicts keyed by address.
type scriptedProber struct {
	mu       sync.Mutex
	verdicts map[string]bool
}

func (p *scriptedProber) For(ep *models.Endpoint) probe.Prober {
	return verdictProber{parent: p}
}

func (p *scriptedProber) verdict(address string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verdicts[address]
}

func (p *scriptedProber) set(address string, online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verdicts[address] = online
}

type verdictProber struct {
	parent *scriptedProber
}

func (v verdictProber) Probe(ctx context.Context, ep *models.Endpoint) bool {
	return v.parent.verdict(ep.Address)
}
