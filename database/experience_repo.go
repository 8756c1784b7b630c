package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
)

type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db}
}

// List orders by sort order, then most recent start first.
func (r *ExperienceRepo) List(ctx context.Context, opts ListOptions) ([]models.Experience, int64, error) {
	return list[models.Experience](ctx, r.db, opts, "sort_order ASC, start_month DESC", func(q *gorm.DB) *gorm.DB {
		if opts.Search != "" {
			pattern := containsPattern(opts.Search)
			q = q.Where(`LOWER(company) LIKE ? ESCAPE '\' OR LOWER(role) LIKE ? ESCAPE '\'`, pattern, pattern)
		}
		return q
	})
}

func (r *ExperienceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	return findByID[models.Experience](ctx, r.db, id, "experience")
}

func (r *ExperienceRepo) Create(ctx context.Context, experience *models.Experience) error {
	return r.db.WithContext(ctx).Create(experience).Error
}

func (r *ExperienceRepo) Update(ctx context.Context, experience *models.Experience) error {
	return update(ctx, r.db, experience, "experience")
}

func (r *ExperienceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Experience](ctx, r.db, id, "experience")
}
