package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// List returns a page of categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context, opts ListOptions) ([]models.Category, int64, error) {
	return list[models.Category](ctx, r.db, opts, "name ASC", func(q *gorm.DB) *gorm.DB {
		if opts.Search != "" {
			q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(opts.Search))
		}
		return q
	})
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return findByID[models.Category](ctx, r.db, id, "category")
}

// Exists reports whether a category with id is present.
func (r *CategoryRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a category. A duplicate name surfaces as gorm.ErrDuplicatedKey.
func (r *CategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepo) Update(ctx context.Context, category *models.Category) error {
	return update(ctx, r.db, category, "category")
}

// Delete removes a category unless blogs still reference it.
func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blogs int64
		if err := tx.Model(&models.Blog{}).Where("category_id = ?", id).Count(&blogs).Error; err != nil {
			return err
		}
		if blogs > 0 {
			return errs.NewConflictError(fmt.Sprintf("category still has %d blog(s) and cannot be deleted", blogs)).
				WithDetails(map[string]any{"blogs": blogs})
		}
		return deleteByID[models.Category](ctx, tx, id, "category")
	})
}
