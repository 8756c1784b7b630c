package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
)

type BlogRepo struct {
	db *gorm.DB
}

func NewBlogRepo(db *gorm.DB) *BlogRepo {
	return &BlogRepo{db}
}

// BlogListOptions narrows a blog listing to one category.
type BlogListOptions struct {
	ListOptions
	CategoryID *uuid.UUID
}

// List returns a page of blogs, newest first, with their category loaded.
func (r *BlogRepo) List(ctx context.Context, opts BlogListOptions) ([]models.Blog, int64, error) {
	return list[models.Blog](ctx, r.db, opts.ListOptions, "created_at DESC", func(q *gorm.DB) *gorm.DB {
		if opts.Search != "" {
			q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(opts.Search))
		}
		if opts.CategoryID != nil {
			q = q.Where("category_id = ?", *opts.CategoryID)
		}
		return q
	}, "Category")
}

func (r *BlogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	return findByID[models.Blog](ctx, r.db, id, "blog", "Category")
}

// Create inserts a blog and reloads its category.
func (r *BlogRepo) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(blog).Error; err != nil {
		return err
	}
	return r.loadCategory(ctx, blog)
}

func (r *BlogRepo) Update(ctx context.Context, blog *models.Blog) error {
	if err := update(ctx, r.db, blog, "blog"); err != nil {
		return err
	}
	return r.loadCategory(ctx, blog)
}

func (r *BlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Blog](ctx, r.db, id, "blog")
}

func (r *BlogRepo) loadCategory(ctx context.Context, blog *models.Blog) error {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", blog.CategoryID).Error; err != nil {
		return err
	}
	blog.Category = &category
	return nil
}
