package database

import (
	"context"

	"github.com/rpupo63/portfolio-api/models"
	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	projectRepo    *ProjectRepo
	categoryRepo   *CategoryRepo
	blogRepo       *BlogRepo
	experienceRepo *ExperienceRepo
	userRepo       *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		projectRepo:    NewProjectRepo(db),
		categoryRepo:   NewCategoryRepo(db),
		blogRepo:       NewBlogRepo(db),
		experienceRepo: NewExperienceRepo(db),
		userRepo:       NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) BlogRepo() *BlogRepo {
	return d.blogRepo
}

func (d Database) ExperienceRepo() *ExperienceRepo {
	return d.experienceRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Ping probes the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or alters the tables for every model.
func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Close releases the underlying connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
