package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-service/internal/entity"
)

const (
	listProductsQuery       = `SELECT name, price, stock FROM products ORDER BY name`
	getProductQuery         = `SELECT name, price, stock FROM products WHERE name = ?`
	updateProductStockQuery = `UPDATE products SET stock = ? WHERE name = ?`
)

func (r *StorefrontRepository) ListProducts(ctx context.Context) ([]entity.ProductStock, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []entity.ProductStock{}
	for rows.Next() {
		var p entity.ProductStock
		if err := rows.Scan(&p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *StorefrontRepository) GetProduct(ctx context.Context, name string) (*entity.ProductStock, error) {
	return getProduct(ctx, r.db, name)
}

// UpdateProductStock sets the absolute stock of a product.
func (r *StorefrontRepository) UpdateProductStock(ctx context.Context, name string, stock int) (*entity.ProductStock, error) {
	if stock < 0 {
		return nil, entity.NewValidationError("stock cannot be negative")
	}
	res, err := r.db.ExecContext(ctx, updateProductStockQuery, stock, name)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", name, entity.ErrProductNotFound)
	}
	return getProduct(ctx, r.db, name)
}

func getProduct(ctx context.Context, q rowQuerier, name string) (*entity.ProductStock, error) {
	p := &entity.ProductStock{}
	err := q.QueryRowContext(ctx, getProductQuery, name).Scan(&p.Name, &p.Price, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, entity.ErrProductNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
