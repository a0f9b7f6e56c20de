package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dfryer1193/goimages/images/domain"
	"github.com/dfryer1193/goimages/shared/db"
)

var _ domain.ImageRepository = (*SQLImageRepository)(nil)

// SQLImageRepository implements domain.ImageRepository using SQL database (SQLite)
type SQLImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLImageRepository {
	return &SQLImageRepository{
		db: sqlDB,
	}
}

const getImageQuery = `
	SELECT id, name, format, size
	FROM images
	WHERE id = ?
`

// GetImage retrieves a single image by id
func (r *SQLImageRepository) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	if !domain.ValidID(id) {
		return nil, fmt.Errorf("invalid image id %d", id)
	}

	var row imageRow
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getImageQuery, id).Scan(
		&row.ID,
		&row.Name,
		&row.Format,
		&row.Size,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrImageNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}

	return row.toDomain(), nil
}

// the primary key decides between insert and conflict in a single statement
const insertImageQuery = `
	INSERT INTO images (id, name, format, size)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING
`

// CreateImage inserts a new image, failing with domain.ErrImageExists if the id is taken
func (r *SQLImageRepository) CreateImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if !domain.ValidID(img.ID) {
		return fmt.Errorf("invalid image id %d", img.ID)
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		n, err := db.ExecAffected(txCtx, r.db, insertImageQuery,
			img.ID,
			img.Name,
			img.Format,
			img.Size,
		)
		if err != nil {
			return fmt.Errorf("failed to insert image record: %w", err)
		}

		if n == 0 {
			return domain.ErrImageExists
		}

		return nil
	})
}

const deleteImageQuery = `
	DELETE FROM images WHERE id = ?
`

// DeleteImage removes an image, failing with domain.ErrImageNotFound if nothing was stored under id
func (r *SQLImageRepository) DeleteImage(ctx context.Context, id int64) error {
	if !domain.ValidID(id) {
		return fmt.Errorf("invalid image id %d", id)
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		n, err := db.ExecAffected(txCtx, r.db, deleteImageQuery, id)
		if err != nil {
			return fmt.Errorf("failed to delete image record: %w", err)
		}

		if n == 0 {
			return domain.ErrImageNotFound
		}

		return nil
	})
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Format string `db:"format"`
	Size   int64  `db:"size"`
}

func (ir *imageRow) toDomain() *domain.Image {
	return &domain.Image{
		ID:     ir.ID,
		Name:   ir.Name,
		Format: ir.Format,
		Size:   ir.Size,
	}
}
