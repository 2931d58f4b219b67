package tag

import "github.com/gofrs/uuid"

// Tag is a label attachable to any number of products. The association
// carries no ownership in either direction.
type Tag struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Slug string    `json:"slug" db:"slug"`
}
