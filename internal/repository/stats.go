package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront-service/internal/catalog"
	"storefront-service/internal/entity"
)

const (
	latestStatsQuery    = `SELECT id, total_orders, total_profits, created_at FROM daily_stats ORDER BY created_at DESC LIMIT 1`
	getStatsQuery       = `SELECT id, total_orders, total_profits, created_at FROM daily_stats WHERE id = ?`
	insertStatsQuery    = `INSERT INTO daily_stats (id, total_orders, total_profits, created_at) VALUES (?, ?, ?, ?)`
	updateStatsQuery    = `UPDATE daily_stats SET total_orders = ?, total_profits = ? WHERE id = ?`
	incrementStatsQuery = `UPDATE daily_stats SET total_orders = total_orders + ?, total_profits = total_profits + ? WHERE id = ?`
	forUpdate           = ` FOR UPDATE`

	seedStatsQuery = `INSERT IGNORE INTO daily_stats (id, total_orders, total_profits, created_at) SELECT ?, ?, ?, ? FROM DUAL WHERE NOT EXISTS (SELECT 1 FROM daily_stats)`
)

// GetLatestStats returns the most recent stats row, or nil when the table
// is empty.
func (r *StorefrontRepository) GetLatestStats(ctx context.Context) (*entity.Stats, error) {
	return latestStats(ctx, r.db, false)
}

// EnsureStats creates the initial stats record when the table is empty and
// returns the latest record.
func (r *StorefrontRepository) EnsureStats(ctx context.Context) (*entity.Stats, error) {
	if err := seedStats(ctx, r.db); err != nil {
		return nil, err
	}
	s, err := latestStats(ctx, r.db, false)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, entity.ErrStatsNotFound
	}
	return s, nil
}

func (r *StorefrontRepository) CreateStats(ctx context.Context, totalOrders int64, totalProfit float64) (*entity.Stats, error) {
	return insertStats(ctx, r.db, totalOrders, totalProfit)
}

// UpdateStats overwrites the totals of one stats row.
func (r *StorefrontRepository) UpdateStats(ctx context.Context, id string, totalOrders int64, totalProfit float64) (*entity.Stats, error) {
	res, err := r.db.ExecContext(ctx, updateStatsQuery, totalOrders, catalog.Round(totalProfit), id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", id, entity.ErrStatsNotFound)
	}

	s := &entity.Stats{}
	err = r.db.QueryRowContext(ctx, getStatsQuery, id).Scan(&s.ID, &s.TotalOrders, &s.TotalProfit, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IncrementStats adds the deltas to the latest stats row in place. It
// returns nil when there is no row to increment.
func (r *StorefrontRepository) IncrementStats(ctx context.Context, orders int64, profit float64) (s *entity.Stats, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	s, err = latestStats(ctx, tx, true)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, tx.Commit()
	}
	if _, err = tx.ExecContext(ctx, incrementStatsQuery, orders, profit, s.ID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.TotalOrders += orders
	s.TotalProfit = catalog.Round(s.TotalProfit + profit)
	return s, nil
}

func latestStats(ctx context.Context, q rowQuerier, lock bool) (*entity.Stats, error) {
	query := latestStatsQuery
	if lock {
		query += forUpdate
	}
	s := &entity.Stats{}
	err := q.QueryRowContext(ctx, query).Scan(&s.ID, &s.TotalOrders, &s.TotalProfit, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func seedStats(ctx context.Context, e execer) error {
	_, err := e.ExecContext(ctx, seedStatsQuery, entity.InitialStatsID, entity.InitialTotalOrders, entity.InitialTotalProfit, time.Now().UTC().Truncate(time.Millisecond))
	return err
}

func insertStats(ctx context.Context, e execer, totalOrders int64, totalProfit float64) (*entity.Stats, error) {
	s := &entity.Stats{
		ID:          uuid.NewString(),
		TotalOrders: totalOrders,
		TotalProfit: catalog.Round(totalProfit),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := e.ExecContext(ctx, insertStatsQuery, s.ID, s.TotalOrders, s.TotalProfit, s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}
