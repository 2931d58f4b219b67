package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/toffycaluga/tienda-backend/internal/auth"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("unit price cannot be negative")
)

// CustomerDirectory is the customer store's read boundary. The ledger never
// reaches into the customers table itself.
type CustomerDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProductDirectory is the catalog store's read boundary.
type ProductDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service interface {
	CreateOrder(ctx context.Context, actor auth.Actor, customerID uuid.UUID, notes string) (*Order, error)
	GetOrder(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, actor auth.Actor) ([]Summary, error)
	AddItem(ctx context.Context, actor auth.Actor, orderID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*Item, error)
	DeleteOrder(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	Total(ctx context.Context, actor auth.Actor, id uuid.UUID) (decimal.Decimal, error)
}

type service struct {
	repo      Repository
	customers CustomerDirectory
	products  ProductDirectory
}

func NewService(repo Repository, customers CustomerDirectory, products ProductDirectory) Service {
	return &service{
		repo:      repo,
		customers: customers,
		products:  products,
	}
}

// CreateOrder starts an order with an empty item set.
func (s *service) CreateOrder(ctx context.Context, actor auth.Actor, customerID uuid.UUID, notes string) (*Order, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		log.Error().Err(err).Stringer("customer_id", customerID).Msg("service: failed to check customer before creating order")
		return nil, fmt.Errorf("service: failed to check customer: %w", err)
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	order := &Order{
		CustomerID: customerID,
		Notes:      notes,
		Items:      make([]Item, 0),
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		// The FK is the backstop for a customer deleted between the check
		// and the insert.
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		log.Error().Err(err).Stringer("customer_id", customerID).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Stringer("order_id", order.ID).Stringer("customer_id", customerID).Msg("service: order created")
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Order, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to get order")
		return nil, fmt.Errorf("service: failed to get order: %w", err)
	}

	return order, nil
}

func (s *service) ListOrders(ctx context.Context, actor auth.Actor) ([]Summary, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	summaries, err := s.repo.ListWithTotals(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return summaries, nil
}

// AddItem appends a line item with the unit price frozen at add-time. An
// existing (order, product) pair is rejected, never overwritten; the
// composite unique index decides concurrent racers.
func (s *service) AddItem(ctx context.Context, actor auth.Actor, orderID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		log.Error().Err(err).Stringer("product_id", productID).Msg("service: failed to check product before adding item")
		return nil, fmt.Errorf("service: failed to check product: %w", err)
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	item := &Item{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}

	if err := s.repo.InsertItem(ctx, item); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrDuplicateItem) {
			return nil, err
		}
		log.Error().Err(err).Stringer("order_id", orderID).Stringer("product_id", productID).Msg("service: failed to add item")
		return nil, fmt.Errorf("service: failed to add item: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("product_id", productID).Int("quantity", quantity).Msg("service: item added")
	return item, nil
}

func (s *service) DeleteOrder(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}

	err := s.repo.DeleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to delete order")
		return fmt.Errorf("service: failed to delete order: %w", err)
	}

	log.Info().Stringer("order_id", id).Msg("service: order deleted")
	return nil
}

// Total recomputes the order total from its items on every call.
func (s *service) Total(ctx context.Context, actor auth.Actor, id uuid.UUID) (decimal.Decimal, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return decimal.Zero, err
	}

	return order.Total(), nil
}
