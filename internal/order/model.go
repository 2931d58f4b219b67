package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Order holds a protected reference to its customer. Items are exclusively
// owned and cascade-deleted with the order.
type Order struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	Notes      string    `json:"notes" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Items      []Item    `json:"items" db:"-"`
}

// Item pairs a product with a quantity and the unit price frozen at the
// moment it was added. At most one item per (order, product) pair.
type Item struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Subtotal is quantity × unit price, computed exactly.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the item subtotals. It is derived on every read and never
// stored, so it cannot go stale.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Summary is one row of the order listing, with the total computed by the
// storage layer in the same aggregate query.
type Summary struct {
	Order Order           `json:"order"`
	Total decimal.Decimal `json:"total"`
}
