package customer

import (
	"time"

	"github.com/gofrs/uuid"
)

type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile holds the extra identity data attached 1:1 to a customer. It is
// cascade-deleted with its owner.
type Profile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Phone      string    `json:"phone" db:"phone"`
}
