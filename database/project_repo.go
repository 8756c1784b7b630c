package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// List returns a page of projects, newest year first, optionally filtered by title.
func (r *ProjectRepo) List(ctx context.Context, opts ListOptions) ([]models.Project, int64, error) {
	return list[models.Project](ctx, r.db, opts, "year DESC, created_at DESC", func(q *gorm.DB) *gorm.DB {
		if opts.Search != "" {
			q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(opts.Search))
		}
		return q
	})
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return findByID[models.Project](ctx, r.db, id, "project")
}

// Create inserts a new project into the database
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update overwrites an existing project
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return update(ctx, r.db, project, "project")
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Project](ctx, r.db, id, "project")
}
