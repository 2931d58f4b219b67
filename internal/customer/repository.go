package customer

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
	ErrNotFound          = errors.New("customer not found")
	ErrEmailExists       = errors.New("customer with this email already exists")
	ErrReferencedByOrder = errors.New("customer is referenced by an order")
	ErrProfileExists     = errors.New("customer already has a profile")
	ErrDocumentIDExists  = errors.New("profile with this document id already exists")
)

type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	InsertProfile(ctx context.Context, profile *Profile) error
	GetProfileByCustomerID(ctx context.Context, customerID uuid.UUID) (*Profile, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{db: pool}
}

func (r *postgresRepository) Create(ctx context.Context, customer *Customer) error {
	if customer.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate customer id: %w", err)
		}
		customer.ID = id
	}
	customer.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO tienda.customers (id, full_name, email, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		customer.ID,
		customer.FullName,
		customer.Email,
		customer.IsActive,
		customer.CreatedAt,
	)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok && constraint == "customers_email_key" {
			return ErrEmailExists
		}
		return fmt.Errorf("repository: failed to insert customer: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `
		SELECT id, full_name, email, is_active, created_at
		FROM tienda.customers
		WHERE id = $1
	`

	var customer Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.FullName,
		&customer.Email,
		&customer.IsActive,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer by id %s: %w", id, err)
	}

	return &customer, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	query := `
		SELECT id, full_name, email, is_active, created_at
		FROM tienda.customers
		WHERE email = $1
	`

	var customer Customer
	err := r.db.QueryRow(ctx, query, email).Scan(
		&customer.ID,
		&customer.FullName,
		&customer.Email,
		&customer.IsActive,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer by email: %w", err)
	}

	return &customer, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Customer, error) {
	query := `
		SELECT id, full_name, email, is_active, created_at
		FROM tienda.customers
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		var customer Customer
		err := rows.Scan(
			&customer.ID,
			&customer.FullName,
			&customer.Email,
			&customer.IsActive,
			&customer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating customers: %w", err)
	}

	return customers, nil
}

func (r *postgresRepository) Update(ctx context.Context, customer *Customer) error {
	query := `
		UPDATE tienda.customers
		SET full_name = $1, email = $2, is_active = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		customer.FullName,
		customer.Email,
		customer.IsActive,
		customer.ID,
	)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok && constraint == "customers_email_key" {
			return ErrEmailExists
		}
		return fmt.Errorf("repository: failed to update customer %s: %w", customer.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// The profile cascades; orders hold a protected reference and block the
	// delete at the constraint level.
	query := `DELETE FROM tienda.customers WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if constraint, ok := db.ForeignKeyViolation(err); ok && constraint == "orders_customer_id_fkey" {
			return ErrReferencedByOrder
		}
		return fmt.Errorf("repository: failed to delete customer %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tienda.customers WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("repository: failed to check customer existence %s: %w", id, err)
	}

	return exists, nil
}

func (r *postgresRepository) InsertProfile(ctx context.Context, profile *Profile) error {
	if profile.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate profile id: %w", err)
		}
		profile.ID = id
	}

	query := `
		INSERT INTO tienda.customer_profiles (id, customer_id, document_id, phone)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.CustomerID,
		profile.DocumentID,
		profile.Phone,
	)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			switch constraint {
			case "customer_profiles_customer_id_key":
				return ErrProfileExists
			case "customer_profiles_document_id_key":
				return ErrDocumentIDExists
			}
		}
		if constraint, ok := db.ForeignKeyViolation(err); ok && constraint == "customer_profiles_customer_id_fkey" {
			return ErrNotFound
		}
		return fmt.Errorf("repository: failed to insert profile for customer %s: %w", profile.CustomerID, err)
	}

	return nil
}

func (r *postgresRepository) GetProfileByCustomerID(ctx context.Context, customerID uuid.UUID) (*Profile, error) {
	query := `
		SELECT id, customer_id, document_id, phone
		FROM tienda.customer_profiles
		WHERE customer_id = $1
	`

	var profile Profile
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&profile.ID,
		&profile.CustomerID,
		&profile.DocumentID,
		&profile.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select profile for customer %s: %w", customerID, err)
	}

	return &profile, nil
}
