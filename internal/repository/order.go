package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/entity"
)

const (
	insertOrderQuery      = `INSERT INTO orders (order_id, product_name, quantity, total, channel, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	lockProductStockQuery = `SELECT stock FROM products WHERE name = ? FOR UPDATE`
	decrementStockQuery   = `UPDATE products SET stock = stock - ? WHERE name = ?`
)

// InsertOrder stores a single order row without touching stock or stats.
func (r *StorefrontRepository) InsertOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	return insertOrder(ctx, r.db, order)
}

func insertOrder(ctx context.Context, e execer, order *entity.Order) (*entity.Order, error) {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	res, err := e.ExecContext(ctx, insertOrderQuery, order.OrderID, order.ProductName, order.Quantity, order.Total, string(order.Channel), order.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, fmt.Errorf("%s: %w", order.OrderID, entity.ErrDuplicateOrder)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	order.ID = id
	return order, nil
}

// CompleteOrder inserts the order, takes the quantity off the product stock
// and adds the order to the running stats in one transaction. The product
// row and the stats row are locked for the duration, so concurrent orders
// serialise instead of overwriting each other. An empty stats table is
// seeded with the initial record before the order is added.
func (r *StorefrontRepository) CompleteOrder(ctx context.Context, order *entity.Order) (c *entity.Completion, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var stock int
	err = tx.QueryRowContext(ctx, lockProductStockQuery, order.ProductName).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", order.ProductName, entity.ErrProductNotFound)
	}
	if err != nil {
		return nil, err
	}
	if stock < order.Quantity {
		return nil, fmt.Errorf("%s: %d requested, %d left: %w", order.ProductName, order.Quantity, stock, entity.ErrInsufficientStock)
	}

	if _, err = insertOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, decrementStockQuery, order.Quantity, order.ProductName); err != nil {
		return nil, err
	}

	stats, err := latestStats(ctx, tx, true)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		if err = seedStats(ctx, tx); err != nil {
			return nil, err
		}
		if stats, err = latestStats(ctx, tx, true); err != nil {
			return nil, err
		}
		if stats == nil {
			return nil, entity.ErrStatsNotFound
		}
	}
	if _, err = tx.ExecContext(ctx, incrementStatsQuery, 1, order.Total, stats.ID); err != nil {
		return nil, err
	}
	stats.TotalOrders++
	stats.TotalProfit = catalog.Round(stats.TotalProfit + order.Total)

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &entity.Completion{
		Order: *order,
		Stock: stock - order.Quantity,
		Stats: *stats,
	}, nil
}
