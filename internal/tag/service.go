package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/toffycaluga/tienda-backend/internal/auth"
)

var ErrValidation = errors.New("invalid tag input")

type Service interface {
	Create(ctx context.Context, actor auth.Actor, name string) (*Tag, error)
	List(ctx context.Context, actor auth.Actor) ([]Tag, error)
	Attach(ctx context.Context, actor auth.Actor, tagID, productID uuid.UUID) error
	Detach(ctx context.Context, actor auth.Actor, tagID, productID uuid.UUID) error
	ProductIDsByTag(ctx context.Context, actor auth.Actor, tagID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, name string) (*Tag, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	slug := Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name must contain at least one letter or digit", ErrValidation)
	}

	tag := &Tag{Name: name, Slug: slug}

	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, ErrNameExists) || errors.Is(err, ErrSlugExists) {
			return nil, err
		}
		log.Error().Err(err).Str("name", name).Msg("service: failed to create tag")
		return nil, fmt.Errorf("service: failed to create tag: %w", err)
	}

	log.Info().Stringer("tag_id", tag.ID).Str("slug", tag.Slug).Msg("service: tag created")
	return tag, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor) ([]Tag, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	tags, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list tags")
		return nil, fmt.Errorf("service: failed to list tags: %w", err)
	}

	return tags, nil
}

func (s *service) Attach(ctx context.Context, actor auth.Actor, tagID, productID uuid.UUID) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}

	err := s.repo.Attach(ctx, tagID, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrProductNotFound) {
			return err
		}
		log.Error().Err(err).Stringer("tag_id", tagID).Stringer("product_id", productID).Msg("service: failed to attach tag")
		return fmt.Errorf("service: failed to attach tag: %w", err)
	}

	return nil
}

func (s *service) Detach(ctx context.Context, actor auth.Actor, tagID, productID uuid.UUID) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}

	if err := s.repo.Detach(ctx, tagID, productID); err != nil {
		log.Error().Err(err).Stringer("tag_id", tagID).Stringer("product_id", productID).Msg("service: failed to detach tag")
		return fmt.Errorf("service: failed to detach tag: %w", err)
	}

	return nil
}

func (s *service) ProductIDsByTag(ctx context.Context, actor auth.Actor, tagID uuid.UUID) ([]uuid.UUID, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, tagID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("tag_id", tagID).Msg("service: failed to load tag")
		return nil, fmt.Errorf("service: failed to load tag: %w", err)
	}

	ids, err := s.repo.ProductIDsByTag(ctx, tagID)
	if err != nil {
		log.Error().Err(err).Stringer("tag_id", tagID).Msg("service: failed to list products for tag")
		return nil, fmt.Errorf("service: failed to list products for tag: %w", err)
	}

	return ids, nil
}
