package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/toffycaluga/tienda-backend/internal/auth"
)

// ErrValidation marks malformed input. Concrete messages wrap it so callers
// can branch with errors.Is.
var ErrValidation = errors.New("invalid product input")

type CreateInput struct {
	Name  string
	SKU   string
	Price decimal.Decimal
}

type UpdateInput struct {
	Name  string
	SKU   string
	Price decimal.Decimal
}

type Service interface {
	List(ctx context.Context, actor auth.Actor) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, actor auth.Actor, input CreateInput) (*Product, error)
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateInput) (*Product, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	MarkInactive(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateInput(name, sku string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(sku) == "" {
		return fmt.Errorf("%w: sku is required", ErrValidation)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return nil
}

func (s *service) List(ctx context.Context, actor auth.Actor) ([]Product, error) {
	if err := actor.Require(auth.CapViewProduct); err != nil {
		return nil, err
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to get product")
		return nil, fmt.Errorf("service: failed to get product: %w", err)
	}

	return product, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateInput) (*Product, error) {
	if err := actor.Require(auth.CapAddProduct); err != nil {
		return nil, err
	}
	if err := validateInput(input.Name, input.SKU, input.Price); err != nil {
		return nil, err
	}

	createdBy := actor.ID
	product := &Product{
		Name:      strings.TrimSpace(input.Name),
		SKU:       strings.TrimSpace(input.SKU),
		Price:     input.Price,
		IsActive:  true,
		CreatedBy: &createdBy,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, ErrSKUExists) {
			return nil, ErrSKUExists
		}
		log.Error().Err(err).Str("sku", product.SKU).Msg("service: failed to create product")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Stringer("product_id", product.ID).Str("sku", product.SKU).Msg("service: product created")
	return product, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateInput) (*Product, error) {
	if err := actor.Require(auth.CapChangeProduct); err != nil {
		return nil, err
	}
	if err := validateInput(input.Name, input.SKU, input.Price); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to load product for update")
		return nil, fmt.Errorf("service: failed to load product for update: %w", err)
	}

	current.Name = strings.TrimSpace(input.Name)
	current.SKU = strings.TrimSpace(input.SKU)
	current.Price = input.Price

	if err := s.repo.Update(ctx, current); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSKUExists) {
			return nil, err
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to update product")
		return nil, fmt.Errorf("service: failed to update product: %w", err)
	}

	return current, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := actor.Require(auth.CapDeleteProduct); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrReferencedByOrder) {
			return err
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("service: failed to delete product: %w", err)
	}

	log.Info().Stringer("product_id", id).Msg("service: product deleted")
	return nil
}

// MarkInactive is a distinct transition gated by its own capability, not a
// general field update. It is idempotent: marking an already inactive
// product succeeds with no change.
func (s *service) MarkInactive(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Product, error) {
	if err := actor.Require(auth.CapMarkInactive); err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to mark product inactive")
		return nil, fmt.Errorf("service: failed to mark product inactive: %w", err)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to reload product after marking inactive")
		return nil, fmt.Errorf("service: failed to reload product: %w", err)
	}

	log.Info().Stringer("product_id", id).Msg("service: product marked inactive")
	return product, nil
}

// Exists lets other stores check product existence without touching the
// products table directly.
func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("service: failed to check product existence: %w", err)
	}
	return exists, nil
}
