package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rpupo63/portfolio-api/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListOptions is an offset page plus optional filters. Zero Limit means no limit.
type ListOptions struct {
	Offset int
	Limit  int
	Search string
}

// list runs the count and the page query in one read-only transaction so total and rows agree.
func list[T any](ctx context.Context, db *gorm.DB, opts ListOptions, order string, filter func(*gorm.DB) *gorm.DB, preload ...string) ([]T, int64, error) {
	if filter == nil {
		filter = func(q *gorm.DB) *gorm.DB { return q }
	}
	items := make([]T, 0)
	var total int64

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
			return err
		}
		q := tx.Scopes(filter).Order(order).Offset(opts.Offset)
		if opts.Limit > 0 {
			q = q.Limit(opts.Limit)
		}
		for _, rel := range preload {
			q = q.Preload(rel)
		}
		return q.Find(&items).Error
	}, txOptions(db))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func txOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() == TypePostgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// containsPattern builds a case-insensitive LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}

func findByID[T any](ctx context.Context, db *gorm.DB, id any, entity string, preload ...string) (*T, error) {
	var item T
	q := db.WithContext(ctx)
	for _, rel := range preload {
		q = q.Preload(rel)
	}
	if err := q.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound(entity)
		}
		return nil, err
	}
	return &item, nil
}

// update writes every column of item except the key and creation time.
func update[T any](ctx context.Context, db *gorm.DB, item *T, entity string) error {
	res := db.WithContext(ctx).Model(item).Select("*").Omit("id", "created_at", clause.Associations).Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(entity)
	}
	return nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id any, entity string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(entity)
	}
	return nil
}
