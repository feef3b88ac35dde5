package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"NetWatch/internal/models"
	"NetWatch/pkg/uuidutil"
)

type endpointStore struct {
	pool *pgxpool.Pool
}

func NewEndpointStore(pool *pgxpool.Pool) EndpointStore {
	return &endpointStore{pool: pool}
}

const endpointColumns = `id, name, address, port, check_kind, keyword, category_id, status, monitored, origin, created_at, updated_at`

func (s *endpointStore) Create(ctx context.Context, endpoint *models.Endpoint) error {
	endpoint.ID = uuidutil.New()
	endpoint.CreatedAt = time.Now()
	endpoint.UpdatedAt = time.Now()

	query := `INSERT INTO endpoints (` + endpointColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.pool.Exec(ctx, query,
		endpoint.ID,
		endpoint.Name,
		endpoint.Address,
		endpoint.Port,
		endpoint.CheckKind,
		endpoint.Keyword,
		endpoint.CategoryID,
		endpoint.Status,
		endpoint.Monitored,
		endpoint.Origin,
		endpoint.CreatedAt,
		endpoint.UpdatedAt,
	)

	return err
}

func (s *endpointStore) GetByID(ctx context.Context, id string) (*models.Endpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM endpoints WHERE id = $1`

	endpoint, err := scanEndpoint(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return endpoint, err
}

func (s *endpointStore) List(ctx context.Context) ([]*models.Endpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM endpoints ORDER BY created_at`
	return s.queryEndpoints(ctx, query)
}

func (s *endpointStore) ListMonitored(ctx context.Context) ([]*models.Endpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM endpoints WHERE monitored ORDER BY created_at`
	return s.queryEndpoints(ctx, query)
}

// Update writes every field except status, which only the health engine
// may touch through UpdateStatus.
func (s *endpointStore) Update(ctx context.Context, endpoint *models.Endpoint) error {
	endpoint.UpdatedAt = time.Now()

	query := `UPDATE endpoints
		SET name = $1, address = $2, port = $3, check_kind = $4, keyword = $5,
			category_id = $6, monitored = $7, origin = $8, updated_at = $9
		WHERE id = $10`

	_, err := s.pool.Exec(ctx, query,
		endpoint.Name,
		endpoint.Address,
		endpoint.Port,
		endpoint.CheckKind,
		endpoint.Keyword,
		endpoint.CategoryID,
		endpoint.Monitored,
		endpoint.Origin,
		endpoint.UpdatedAt,
		endpoint.ID,
	)

	return err
}

func (s *endpointStore) UpdateStatus(ctx context.Context, id string, status models.EndpointStatus) error {
	query := `UPDATE endpoints SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := s.pool.Exec(ctx, query, status, time.Now(), id)
	return err
}

func (s *endpointStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM endpoints WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id)
	return err
}

func (s *endpointStore) queryEndpoints(ctx context.Context, query string, args ...any) ([]*models.Endpoint, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: failed to query: %w", err)
	}
	defer rows.Close()

	var endpoints []*models.Endpoint
	for rows.Next() {
		endpoint, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("list endpoints: failed to scan row: %w", err)
		}
		endpoints = append(endpoints, endpoint)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list endpoints: row iteration error: %w", err)
	}

	return endpoints, nil
}

func scanEndpoint(row pgx.Row) (*models.Endpoint, error) {
	var endpoint models.Endpoint
	err := row.Scan(
		&endpoint.ID,
		&endpoint.Name,
		&endpoint.Address,
		&endpoint.Port,
		&endpoint.CheckKind,
		&endpoint.Keyword,
		&endpoint.CategoryID,
		&endpoint.Status,
		&endpoint.Monitored,
		&endpoint.Origin,
		&endpoint.CreatedAt,
		&endpoint.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &endpoint, nil
}
