package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dfryer1193/goimages/images/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ domain.ImageRepository = (*GormImageRepository)(nil)

// imageModel is the gorm mapping of the images table
type imageModel struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name   string `gorm:"column:name;type:varchar(100);not null"`
	Format string `gorm:"column:format;type:varchar(100);not null"`
	Size   int64  `gorm:"column:size;not null"`
}

func (imageModel) TableName() string {
	return "images"
}

func (m *imageModel) toDomain() *domain.Image {
	return &domain.Image{
		ID:     m.ID,
		Name:   m.Name,
		Format: m.Format,
		Size:   m.Size,
	}
}

// GormImageRepository implements domain.ImageRepository with gorm, so any
// dialect gorm supports can hold the images table
type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// AutoMigrate creates the images table if it does not exist
func (r *GormImageRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&imageModel{})
}

func (r *GormImageRepository) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	if !domain.ValidID(id) {
		return nil, fmt.Errorf("invalid image id %d", id)
	}

	var m imageModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}

	return m.toDomain(), nil
}

func (r *GormImageRepository) CreateImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	if !domain.ValidID(img.ID) {
		return fmt.Errorf("invalid image id %d", img.ID)
	}

	m := imageModel{
		ID:     img.ID,
		Name:   img.Name,
		Format: img.Format,
		Size:   img.Size,
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if tx.Error != nil {
		return fmt.Errorf("failed to insert image record: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrImageExists
	}

	return nil
}

func (r *GormImageRepository) DeleteImage(ctx context.Context, id int64) error {
	if !domain.ValidID(id) {
		return fmt.Errorf("invalid image id %d", id)
	}

	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&imageModel{})
	if tx.Error != nil {
		return fmt.Errorf("failed to delete image record: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrImageNotFound
	}

	return nil
}
