package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"NetWatch/internal/models"
	"NetWatch/pkg/uuidutil"
)

type transitionStore struct {
	pool *pgxpool.Pool
}

func NewTransitionStore(pool *pgxpool.Pool) TransitionStore {
	return &transitionStore{pool: pool}
}

func (s *transitionStore) Create(ctx context.Context, transition *models.StatusTransition) error {
	transition.ID = uuidutil.New()
	if transition.CreatedAt.IsZero() {
		transition.CreatedAt = time.Now()
	}

	query := `INSERT INTO status_transitions (id, endpoint_id, status, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query,
		transition.ID,
		transition.EndpointID,
		transition.Status,
		transition.CreatedAt,
	)

	return err
}

// ListByEndpoint returns the uptime timeline for one endpoint, oldest
// first, bounded by the optional time range.
func (s *transitionStore) ListByEndpoint(ctx context.Context, endpointID string, from, to time.Time, limit int) ([]*models.StatusTransition, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	query := `SELECT id, endpoint_id, status, created_at
		FROM status_transitions
		WHERE endpoint_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at
		LIMIT $4`

	rows, err := s.pool.Query(ctx, query, endpointID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list transitions: failed to query: %w", err)
	}
	defer rows.Close()

	var transitions []*models.StatusTransition
	for rows.Next() {
		var transition models.StatusTransition
		err := rows.Scan(
			&transition.ID,
			&transition.EndpointID,
			&transition.Status,
			&transition.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list transitions: failed to scan row: %w", err)
		}
		transitions = append(transitions, &transition)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transitions: row iteration error: %w", err)
	}

	return transitions, nil
}
