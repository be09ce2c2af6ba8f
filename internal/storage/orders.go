package storage

import (
	"context"
	"fmt"

	"github.com/mhoralek/pointmarket/internal/models"
)

// CreateOrder inserts an order with its lines in one transaction and
// returns the order id.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (int64, error) {
	const op = "storage.CreateOrder"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var newID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (uid, user_id, total) VALUES ($1, $2, $3) RETURNING id`,
		order.UID, order.UserID, order.Total).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, product_id, name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			newID, line.ProductID, line.Name, line.Quantity, line.UnitPrice)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListOrdersByUser returns a user's orders with lines, newest first.
func (s *Storage) ListOrdersByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	const op = "storage.ListOrdersByUser"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, uid, user_id, total, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UID, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range orders {
		lines, err := s.orderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (s *Storage) orderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT product_id, name, quantity, unit_price FROM order_lines WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
