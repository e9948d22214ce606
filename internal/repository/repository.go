package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// StorefrontRepository is the only component that talks to MySQL. It owns
// the products, orders, daily_stats and feedbacks tables.
type StorefrontRepository struct {
	db *sql.DB
}

func NewStorefrontRepository(db *sql.DB) *StorefrontRepository {
	return &StorefrontRepository{db}
}

func (r *StorefrontRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
