package domain

import (
	"context"
	"errors"
)

var (
	// ErrImageNotFound is returned when no image is stored under the requested id
	ErrImageNotFound = errors.New("image not found")

	// ErrImageExists is returned when creating an image whose id is already taken
	ErrImageExists = errors.New("image already exists")
)

// Image is the metadata record of a single image.
// Records are created once and never updated; the id is chosen by the caller.
type Image struct {
	ID     int64
	Name   string
	Format string
	Size   int64
}

type ImageRepository interface {
	// GetImage returns the image stored under id, or ErrImageNotFound
	GetImage(ctx context.Context, id int64) (*Image, error)

	// CreateImage stores a new image, or returns ErrImageExists if the id is taken
	CreateImage(ctx context.Context, img *Image) error

	// DeleteImage removes the image stored under id, or returns ErrImageNotFound
	DeleteImage(ctx context.Context, id int64) error
}

// ValidID reports whether id can address a stored image
func ValidID(id int64) bool {
	return id > 0
}
