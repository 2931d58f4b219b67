package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toffycaluga/tienda-backend/internal/db"
)

var (
	ErrNotFound        = errors.New("tag not found")
	ErrNameExists      = errors.New("tag with this name already exists")
	ErrSlugExists      = errors.New("tag with this slug already exists")
	ErrProductNotFound = errors.New("product not found")
)

type Repository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	List(ctx context.Context) ([]Tag, error)
	Attach(ctx context.Context, tagID, productID uuid.UUID) error
	Detach(ctx context.Context, tagID, productID uuid.UUID) error
	ProductIDsByTag(ctx context.Context, tagID uuid.UUID) ([]uuid.UUID, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{db: pool}
}

func (r *postgresRepository) Create(ctx context.Context, tag *Tag) error {
	if tag.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate tag id: %w", err)
		}
		tag.ID = id
	}

	query := `INSERT INTO tienda.tags (id, name, slug) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, tag.ID, tag.Name, tag.Slug)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			switch constraint {
			case "tags_name_key":
				return ErrNameExists
			case "tags_slug_key":
				return ErrSlugExists
			}
		}
		return fmt.Errorf("repository: failed to insert tag: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Tag, error) {
	query := `SELECT id, name, slug FROM tienda.tags WHERE id = $1`

	var tag Tag
	err := r.db.QueryRow(ctx, query, id).Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select tag by id %s: %w", id, err)
	}

	return &tag, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Tag, error) {
	query := `SELECT id, name, slug FROM tienda.tags ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]Tag, 0)
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, fmt.Errorf("repository: failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating tags: %w", err)
	}

	return tags, nil
}

// Attach is idempotent: re-attaching an existing pair is a no-op.
func (r *postgresRepository) Attach(ctx context.Context, tagID, productID uuid.UUID) error {
	query := `
		INSERT INTO tienda.tag_products (tag_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, tagID, productID)
	if err != nil {
		if constraint, ok := db.ForeignKeyViolation(err); ok {
			switch constraint {
			case "tag_products_tag_id_fkey":
				return ErrNotFound
			case "tag_products_product_id_fkey":
				return ErrProductNotFound
			}
		}
		return fmt.Errorf("repository: failed to attach tag %s to product %s: %w", tagID, productID, err)
	}

	return nil
}

// Detach is idempotent: removing an absent pair is a no-op.
func (r *postgresRepository) Detach(ctx context.Context, tagID, productID uuid.UUID) error {
	query := `DELETE FROM tienda.tag_products WHERE tag_id = $1 AND product_id = $2`

	if _, err := r.db.Exec(ctx, query, tagID, productID); err != nil {
		return fmt.Errorf("repository: failed to detach tag %s from product %s: %w", tagID, productID, err)
	}

	return nil
}

func (r *postgresRepository) ProductIDsByTag(ctx context.Context, tagID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT product_id FROM tienda.tag_products WHERE tag_id = $1`

	rows, err := r.db.Query(ctx, query, tagID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products for tag %s: %w", tagID, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository: failed to scan product id for tag %s: %w", tagID, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products for tag %s: %w", tagID, err)
	}

	return ids, nil
}
