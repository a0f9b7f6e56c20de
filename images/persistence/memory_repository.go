package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/dfryer1193/goimages/images/domain"
)

var _ domain.ImageRepository = (*MemoryImageRepository)(nil)

// MemoryImageRepository keeps images in a map. Nothing survives a restart.
type MemoryImageRepository struct {
	mu     sync.RWMutex
	images map[int64]domain.Image
}

func NewMemoryImageRepository() *MemoryImageRepository {
	return &MemoryImageRepository{
		images: make(map[int64]domain.Image),
	}
}

func (r *MemoryImageRepository) GetImage(_ context.Context, id int64) (*domain.Image, error) {
	if !domain.ValidID(id) {
		return nil, fmt.Errorf("invalid image id %d", id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return &img, nil
}

func (r *MemoryImageRepository) CreateImage(_ context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	if !domain.ValidID(img.ID) {
		return fmt.Errorf("invalid image id %d", img.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[img.ID]; ok {
		return domain.ErrImageExists
	}
	r.images[img.ID] = *img
	return nil
}

func (r *MemoryImageRepository) DeleteImage(_ context.Context, id int64) error {
	if !domain.ValidID(id) {
		return fmt.Errorf("invalid image id %d", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return domain.ErrImageNotFound
	}
	delete(r.images, id)
	return nil
}
