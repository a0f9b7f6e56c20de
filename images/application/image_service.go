package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/dfryer1193/goimages/images/domain"
	"github.com/rs/zerolog/log"
)

// ImageService runs exactly one repository call per operation
type ImageService struct {
	repo domain.ImageRepository
}

func NewImageService(repo domain.ImageRepository) *ImageService {
	return &ImageService{
		repo: repo,
	}
}

func (s *ImageService) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	img, err := s.repo.GetImage(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, "get", id, err)
	}
	return img, nil
}

// CreateImage stores a validated input under id
func (s *ImageService) CreateImage(ctx context.Context, id int64, input ImageInput) (*domain.Image, error) {
	img := &domain.Image{
		ID:     id,
		Name:   input.Name,
		Format: input.Format,
		Size:   input.Size,
	}

	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, s.wrap(ctx, "create", id, err)
	}

	log.Ctx(ctx).Info().Int64("image_id", id).Str("format", img.Format).Int64("size", img.Size).Msg("Image created")
	return img, nil
}

func (s *ImageService) DeleteImage(ctx context.Context, id int64) error {
	if err := s.repo.DeleteImage(ctx, id); err != nil {
		return s.wrap(ctx, "delete", id, err)
	}

	log.Ctx(ctx).Info().Int64("image_id", id).Msg("Image deleted")
	return nil
}

// wrap passes domain outcomes through untouched and logs anything else as a storage failure
func (s *ImageService) wrap(ctx context.Context, op string, id int64, err error) error {
	if errors.Is(err, domain.ErrImageNotFound) || errors.Is(err, domain.ErrImageExists) {
		log.Ctx(ctx).Debug().Err(err).Str("op", op).Int64("image_id", id).Msg("Image operation rejected")
		return err
	}

	log.Ctx(ctx).Error().Err(err).Str("op", op).Int64("image_id", id).Msg("Image store failure")
	return fmt.Errorf("failed to %s image %d: %w", op, id, err)
}
