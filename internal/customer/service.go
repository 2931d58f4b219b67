package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/toffycaluga/tienda-backend/internal/auth"
)

var ErrValidation = errors.New("invalid customer input")

type Service interface {
	Create(ctx context.Context, actor auth.Actor, fullName, email string) (*Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	List(ctx context.Context, actor auth.Actor) ([]Customer, error)
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, fullName, email string) (*Customer, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	AttachProfile(ctx context.Context, actor auth.Actor, customerID uuid.UUID, documentID, phone string) (*Profile, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateCustomer(fullName, email string) error {
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	return nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, fullName, email string) (*Customer, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if err := validateCustomer(fullName, email); err != nil {
		return nil, err
	}

	customer := &Customer{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
		IsActive: true,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create customer")
		return nil, fmt.Errorf("service: failed to create customer: %w", err)
	}

	log.Info().Stringer("customer_id", customer.ID).Msg("service: customer created")
	return customer, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("customer_id", id).Msg("service: failed to get customer")
		return nil, fmt.Errorf("service: failed to get customer: %w", err)
	}

	return customer, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	customer, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Msg("service: failed to get customer by email")
		return nil, fmt.Errorf("service: failed to get customer by email: %w", err)
	}

	return customer, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor) ([]Customer, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	customers, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list customers")
		return nil, fmt.Errorf("service: failed to list customers: %w", err)
	}

	return customers, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, fullName, email string) (*Customer, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if err := validateCustomer(fullName, email); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("customer_id", id).Msg("service: failed to load customer for update")
		return nil, fmt.Errorf("service: failed to load customer for update: %w", err)
	}

	current.FullName = strings.TrimSpace(fullName)
	current.Email = strings.TrimSpace(email)

	if err := s.repo.Update(ctx, current); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		log.Error().Err(err).Stringer("customer_id", id).Msg("service: failed to update customer")
		return nil, fmt.Errorf("service: failed to update customer: %w", err)
	}

	return current, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrReferencedByOrder) {
			return err
		}
		log.Error().Err(err).Stringer("customer_id", id).Msg("service: failed to delete customer")
		return fmt.Errorf("service: failed to delete customer: %w", err)
	}

	log.Info().Stringer("customer_id", id).Msg("service: customer deleted")
	return nil
}

// AttachProfile enforces the one-profile-per-customer invariant explicitly
// before writing, so the caller gets ErrProfileExists without a partial
// insert. The unique constraints still decide races.
func (s *service) AttachProfile(ctx context.Context, actor auth.Actor, customerID uuid.UUID, documentID, phone string) (*Profile, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrValidation)
	}

	exists, err := s.repo.ExistsByID(ctx, customerID)
	if err != nil {
		log.Error().Err(err).Stringer("customer_id", customerID).Msg("service: failed to check customer before attaching profile")
		return nil, fmt.Errorf("service: failed to check customer: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	_, err = s.repo.GetProfileByCustomerID(ctx, customerID)
	if err == nil {
		return nil, ErrProfileExists
	}
	if !errors.Is(err, ErrNotFound) {
		log.Error().Err(err).Stringer("customer_id", customerID).Msg("service: failed to check existing profile")
		return nil, fmt.Errorf("service: failed to check existing profile: %w", err)
	}

	profile := &Profile{
		CustomerID: customerID,
		DocumentID: strings.TrimSpace(documentID),
		Phone:      strings.TrimSpace(phone),
	}

	if err := s.repo.InsertProfile(ctx, profile); err != nil {
		if errors.Is(err, ErrProfileExists) || errors.Is(err, ErrDocumentIDExists) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		log.Error().Err(err).Stringer("customer_id", customerID).Msg("service: failed to attach profile")
		return nil, fmt.Errorf("service: failed to attach profile: %w", err)
	}

	log.Info().Stringer("customer_id", customerID).Msg("service: profile attached")
	return profile, nil
}

// Exists lets the order ledger check customer existence without touching
// the customers table directly.
func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("service: failed to check customer existence: %w", err)
	}
	return exists, nil
}
