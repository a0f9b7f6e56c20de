package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dfryer1193/goimages/images/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.ImageRepository = (*RedisImageRepository)(nil)

const DefaultRedisKeyPrefix = "images:"

// RedisImageRepository keeps each image as one JSON value. SETNX and DEL
// report whether they changed anything, which gives create and delete their
// conflict and not-found outcomes atomically.
type RedisImageRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisImageRepository(client redis.UniversalClient, keyPrefix string) *RedisImageRepository {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	return &RedisImageRepository{
		client: client,
		prefix: keyPrefix,
	}
}

type redisImage struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

func (r *RedisImageRepository) key(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}

func (r *RedisImageRepository) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	if !domain.ValidID(id) {
		return nil, fmt.Errorf("invalid image id %d", id)
	}

	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}

	var v redisImage
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode image %d: %w", id, err)
	}

	return &domain.Image{
		ID:     v.ID,
		Name:   v.Name,
		Format: v.Format,
		Size:   v.Size,
	}, nil
}

func (r *RedisImageRepository) CreateImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	if !domain.ValidID(img.ID) {
		return fmt.Errorf("invalid image id %d", img.ID)
	}

	data, err := json.Marshal(redisImage{
		ID:     img.ID,
		Name:   img.Name,
		Format: img.Format,
		Size:   img.Size,
	})
	if err != nil {
		return fmt.Errorf("failed to encode image %d: %w", img.ID, err)
	}

	created, err := r.client.SetNX(ctx, r.key(img.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert image record: %w", err)
	}
	if !created {
		return domain.ErrImageExists
	}

	return nil
}

func (r *RedisImageRepository) DeleteImage(ctx context.Context, id int64) error {
	if !domain.ValidID(id) {
		return fmt.Errorf("invalid image id %d", id)
	}

	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}
	if n == 0 {
		return domain.ErrImageNotFound
	}

	return nil
}
