package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toffycaluga/tienda-backend/internal/db"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrSKUExists         = errors.New("product with this sku already exists")
	ErrReferencedByOrder = errors.New("product is referenced by an order item")
)

type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{db: pool}
}

func (r *postgresRepository) Create(ctx context.Context, product *Product) error {
	if product.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate product id: %w", err)
		}
		product.ID = id
	}
	product.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO tienda.products (id, name, sku, price, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		product.ID,
		product.Name,
		product.SKU,
		product.Price,
		product.IsActive,
		product.CreatedBy,
		product.CreatedAt,
	)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok && constraint == "products_sku_key" {
			return ErrSKUExists
		}
		return fmt.Errorf("repository: failed to insert product: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := `
		SELECT id, name, sku, price, is_active, created_by, created_at
		FROM tienda.products
		WHERE id = $1
	`

	var product Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.SKU,
		&product.Price,
		&product.IsActive,
		&product.CreatedBy,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %s: %w", id, err)
	}

	return &product, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, name, sku, price, is_active, created_by, created_at
		FROM tienda.products
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var product Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.SKU,
			&product.Price,
			&product.IsActive,
			&product.CreatedBy,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	return products, nil
}

func (r *postgresRepository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE tienda.products
		SET name = $1, sku = $2, price = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		product.Name,
		product.SKU,
		product.Price,
		product.ID,
	)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok && constraint == "products_sku_key" {
			return ErrSKUExists
		}
		return fmt.Errorf("repository: failed to update product %s: %w", product.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tienda.products WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if constraint, ok := db.ForeignKeyViolation(err); ok && constraint == "order_items_product_id_fkey" {
			return ErrReferencedByOrder
		}
		return fmt.Errorf("repository: failed to delete product %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE tienda.products SET is_active = $1 WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("repository: failed to set product %s active=%t: %w", id, active, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tienda.products WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("repository: failed to check product existence %s: %w", id, err)
	}

	return exists, nil
}
