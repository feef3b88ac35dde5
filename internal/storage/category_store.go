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

type categoryStore struct {
	pool *pgxpool.Pool
}

func NewCategoryStore(pool *pgxpool.Pool) CategoryStore {
	return &categoryStore{pool: pool}
}

// Upsert creates the category if absent and returns the stored row
// either way. Reconciliation calls this once per feed category per
// cycle, so it must stay idempotent.
func (s *categoryStore) Upsert(ctx context.Context, name, description string) (*models.Category, error) {
	query := `INSERT INTO categories (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, description, created_at`

	var category models.Category
	err := s.pool.QueryRow(ctx, query, uuidutil.New(), name, description, time.Now()).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category %s: %w", name, err)
	}

	return &category, nil
}

func (s *categoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT id, name, description, created_at FROM categories WHERE id = $1`
	return s.getOne(ctx, query, id)
}

func (s *categoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	query := `SELECT id, name, description, created_at FROM categories WHERE name = $1`
	return s.getOne(ctx, query, name)
}

func (s *categoryStore) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, name, description, created_at FROM categories ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: failed to query: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list categories: failed to scan row: %w", err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: row iteration error: %w", err)
	}

	return categories, nil
}

// Delete removes the category; referencing endpoints keep running with a
// nulled category_id (ON DELETE SET NULL in the schema).
func (s *categoryStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM categories WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id)
	return err
}

func (s *categoryStore) getOne(ctx context.Context, query string, arg any) (*models.Category, error) {
	var category models.Category
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}
