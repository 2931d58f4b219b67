package order

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
	ErrNotFound         = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateItem    = errors.New("order already has an item for this product")
)

type Repository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListWithTotals(ctx context.Context) ([]Summary, error)
	InsertItem(ctx context.Context, item *Item) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{db: pool}
}

func (r *postgresRepository) CreateOrder(ctx context.Context, order *Order) error {
	if order.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order id: %w", err)
		}
		order.ID = id
	}
	order.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO tienda.orders (id, customer_id, notes, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.Notes,
		order.CreatedAt,
	)
	if err != nil {
		if constraint, ok := db.ForeignKeyViolation(err); ok && constraint == "orders_customer_id_fkey" {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	if order.Items == nil {
		order.Items = make([]Item, 0)
	}

	return nil
}

func (r *postgresRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT id, customer_id, notes, created_at
		FROM tienda.orders
		WHERE id = $1
	`

	var order Order
	err := r.db.QueryRow(ctx, queryOrder, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Notes,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	queryItems := `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM tienda.order_items
		WHERE order_id = $1
	`

	rows, err := r.db.Query(ctx, queryItems, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query items for order %s: %w", id, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan item for order %s: %w", id, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating items for order %s: %w", id, err)
	}

	order.Items = items

	return &order, nil
}

// ListWithTotals computes every order's total in one aggregate query instead
// of one round trip per order.
func (r *postgresRepository) ListWithTotals(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT o.id, o.customer_id, o.notes, o.created_at,
		       COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total
		FROM tienda.orders o
		LEFT JOIN tienda.order_items oi ON oi.order_id = o.id
		GROUP BY o.id, o.customer_id, o.notes, o.created_at
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order totals: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var summary Summary
		err := rows.Scan(
			&summary.Order.ID,
			&summary.Order.CustomerID,
			&summary.Order.Notes,
			&summary.Order.CreatedAt,
			&summary.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order summaries: %w", err)
	}

	return summaries, nil
}

func (r *postgresRepository) InsertItem(ctx context.Context, item *Item) error {
	if item.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate item id: %w", err)
		}
		item.ID = id
	}

	query := `
		INSERT INTO tienda.order_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
	)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok && constraint == "order_items_order_product_key" {
			return ErrDuplicateItem
		}
		if constraint, ok := db.ForeignKeyViolation(err); ok {
			switch constraint {
			case "order_items_order_id_fkey":
				return ErrNotFound
			case "order_items_product_id_fkey":
				return ErrProductNotFound
			}
		}
		return fmt.Errorf("repository: failed to insert item for order %s: %w", item.OrderID, err)
	}

	return nil
}

// DeleteOrder removes the order; its items cascade.
func (r *postgresRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tienda.orders WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
