package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/entity"
)

var tables = []struct {
	name  string
	query string
}{
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			name VARCHAR(255) NOT NULL PRIMARY KEY,
			price DECIMAL(12,2) NOT NULL,
			stock INT NOT NULL,
			updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)
		);
	`},
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(64) NOT NULL UNIQUE,
			product_name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			total DECIMAL(12,2) NOT NULL,
			channel VARCHAR(20) NOT NULL,
			created_at DATETIME(3) NOT NULL
		);
	`},
	{"daily_stats", `
		CREATE TABLE IF NOT EXISTS daily_stats (
			id CHAR(36) NOT NULL PRIMARY KEY,
			total_orders BIGINT NOT NULL,
			total_profits DECIMAL(14,2) NOT NULL,
			created_at DATETIME(3) NOT NULL,
			INDEX idx_daily_stats_created_at (created_at)
		);
	`},
	{"feedbacks", `
		CREATE TABLE IF NOT EXISTS feedbacks (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id CHAR(36) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			feedback VARCHAR(500) NOT NULL,
			rating TINYINT NOT NULL,
			avatar_url VARCHAR(512) NOT NULL,
			created_at DATETIME(3) NOT NULL,
			INDEX idx_feedbacks_created_at (created_at)
		);
	`},
}

const (
	seedProductQuery = `INSERT IGNORE INTO products (name, price, stock) VALUES (?, ?, ?)`
	seedStatsQuery   = `INSERT IGNORE INTO daily_stats (id, total_orders, total_profits, created_at) SELECT ?, ?, ?, ? FROM DUAL WHERE NOT EXISTS (SELECT 1 FROM daily_stats)`
)

// retryDelay is the pause between attempts; tests shorten it.
var retryDelay = 1 * time.Second

// AutoMigrate creates the storefront tables if they do not exist.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, t := range tables {
		_, err := db.Exec(t.query)
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(retryDelay)
			_, err = db.Exec(t.query)
		}
		if err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	return nil
}

// SeedProducts inserts every catalog product with its default stock. Rows
// that already exist keep their stock.
func SeedProducts(ctx context.Context, db *sql.DB) error {
	for _, p := range catalog.Products() {
		if _, err := db.ExecContext(ctx, seedProductQuery, p.Name, p.Price, p.DefaultStock); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	return nil
}

// SeedStats writes the initial stats record when the table is empty.
func SeedStats(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, seedStatsQuery,
		entity.InitialStatsID, entity.InitialTotalOrders, entity.InitialTotalProfit,
		time.Now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return fmt.Errorf("seed stats: %w", err)
	}
	return nil
}
