package entity

import "time"

// The first stats record. It has a fixed id so that concurrent seeding
// inserts at most one row.
const (
	InitialStatsID             = "00000000-0000-4000-8000-000000001012"
	InitialTotalOrders int64   = 1012
	InitialTotalProfit float64 = 3500
)

// Stats is the running total of all orders and profit.
type Stats struct {
	ID          string    `json:"id"`
	TotalOrders int64     `json:"total_orders"`
	TotalProfit float64   `json:"total_profit"`
	CreatedAt   time.Time `json:"created_at"`
}

/*
Mysql Table

CREATE TABLE daily_stats (
	id CHAR(36) NOT NULL PRIMARY KEY,
	total_orders BIGINT NOT NULL,
	total_profits DECIMAL(14,2) NOT NULL,
	created_at DATETIME(3) NOT NULL
);
*/
