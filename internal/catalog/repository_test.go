package catalog_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toffycaluga/tienda-backend/internal/catalog"
)

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	host := os.Getenv("DB_HOST_TEST")
	if host == "" {
		t.Skip("DB_HOST_TEST is not set; skipping repository integration tests")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=tienda",
		host,
		envOrDefault("DB_PORT_TEST", "5432"),
		envOrDefault("DB_USER_TEST", "postgres"),
		envOrDefault("DB_PASSWORD_TEST", "123456"),
		envOrDefault("DB_NAME_TEST", "tienda_db"),
		envOrDefault("DB_SSLMODE_TEST", "disable"),
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err, "failed to parse test database config")
	poolConfig.MaxConns = 5

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, pool.Ping(ctx), "failed to ping test database")

	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(), "TRUNCATE TABLE tienda.order_items, tienda.orders, tienda.customers, tienda.products CASCADE")
		require.NoError(t, err, "failed to truncate tables")
		pool.Close()
	})

	return pool
}

func TestRepository_Create_DuplicateSKU(t *testing.T) {
	pool := newTestPool(t)
	repo := catalog.NewRepository(pool)
	ctx := context.Background()

	first := &catalog.Product{Name: "Polera", SKU: "POL-001", Price: decimal.RequireFromString("19.90"), IsActive: true}
	require.NoError(t, repo.Create(ctx, first))

	second := &catalog.Product{Name: "Polera v2", SKU: "POL-001", Price: decimal.RequireFromString("29.90"), IsActive: true}
	require.ErrorIs(t, repo.Create(ctx, second), catalog.ErrSKUExists)

	// Exactly one row exists.
	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Polera", products[0].Name)
}

func TestRepository_Update_DuplicateSKU(t *testing.T) {
	pool := newTestPool(t)
	repo := catalog.NewRepository(pool)
	ctx := context.Background()

	first := &catalog.Product{Name: "Polera", SKU: "POL-001", Price: decimal.RequireFromString("19.90"), IsActive: true}
	require.NoError(t, repo.Create(ctx, first))
	second := &catalog.Product{Name: "Gorro", SKU: "GOR-001", Price: decimal.RequireFromString("5.50"), IsActive: true}
	require.NoError(t, repo.Create(ctx, second))

	second.SKU = "POL-001"
	require.ErrorIs(t, repo.Update(ctx, second), catalog.ErrSKUExists)
}

func TestRepository_SetActive_Idempotent(t *testing.T) {
	pool := newTestPool(t)
	repo := catalog.NewRepository(pool)
	ctx := context.Background()

	p := &catalog.Product{Name: "Polera", SKU: "POL-001", Price: decimal.RequireFromString("19.90"), IsActive: true}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.SetActive(ctx, p.ID, false))
	require.NoError(t, repo.SetActive(ctx, p.ID, false))

	loaded, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)
}

func TestRepository_Delete_Unreferenced(t *testing.T) {
	pool := newTestPool(t)
	repo := catalog.NewRepository(pool)
	ctx := context.Background()

	p := &catalog.Product{Name: "Polera", SKU: "POL-001", Price: decimal.RequireFromString("19.90"), IsActive: true}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err := repo.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}
