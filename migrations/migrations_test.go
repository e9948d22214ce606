package migrations

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/catalog"
	"storefront-service/internal/entity"
)

func TestAutoMigrate_CreatesEveryTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"products", "orders", "daily_stats", "feedbacks"} {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + table + " (")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, AutoMigrate(3, db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoMigrate_RetriesThenFails(t *testing.T) {
	retryDelay = time.Millisecond
	defer func() { retryDelay = time.Second }()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 3; i++ {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS products")).
			WillReturnError(errors.New("server has gone away"))
	}

	err = AutoMigrate(2, db)
	assert.ErrorContains(t, err, "create table products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, p := range catalog.Products() {
		mock.ExpectExec(regexp.QuoteMeta(seedProductQuery)).
			WithArgs(p.Name, p.Price, p.DefaultStock).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, SeedProducts(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(seedStatsQuery)).
		WithArgs(entity.InitialStatsID, entity.InitialTotalOrders, entity.InitialTotalProfit, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// an existing table is left alone
	mock.ExpectExec(regexp.QuoteMeta(seedStatsQuery)).
		WithArgs(entity.InitialStatsID, entity.InitialTotalOrders, entity.InitialTotalProfit, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, SeedStats(context.Background(), db))
	require.NoError(t, SeedStats(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedStats_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(seedStatsQuery)).WillReturnError(errors.New("boom"))

	err = SeedStats(context.Background(), db)
	assert.ErrorContains(t, err, "seed stats")
}
