package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mhoralek/pointmarket/internal/models"
)

// ListActiveProducts returns the active rewards catalogue ordered by price.
func (s *Storage) ListActiveProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	const op = "storage.ListActiveProducts"

	query := `SELECT id, name, price, active, created_at
			  FROM products WHERE active ORDER BY price, id LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// GetProduct returns one product by id.
func (s *Storage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "storage.GetProduct"

	query := `SELECT id, name, price, active, created_at FROM products WHERE id = $1`
	var p models.Product
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
