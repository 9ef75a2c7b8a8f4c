package internal

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"preview-api/apiv1"
)

// DAO provides generic database operations for resources
type DAO[T any] struct {
	db *gorm.DB
}

// NewDAO creates a new DAO instance
func NewDAO[T any](db *gorm.DB) *DAO[T] {
	return &DAO[T]{db: db}
}

// DB returns the underlying handle bound to ctx.
func (d *DAO[T]) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// WithTx returns a DAO sharing the given transaction.
func (d *DAO[T]) WithTx(tx *gorm.DB) *DAO[T] {
	return &DAO[T]{db: tx}
}

// Query narrows a lookup: where clauses, ordering and preloads.
type Query func(*gorm.DB) *gorm.DB

// Where builds a Query from a gorm condition.
func Where(query any, args ...any) Query {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

// OrderBy builds a Query ordering the results.
func OrderBy(order string) Query {
	return func(db *gorm.DB) *gorm.DB { return db.Order(order) }
}

// Preload builds a Query eager-loading an association.
func Preload(association string, args ...any) Query {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(association, args...) }
}

func apply(db *gorm.DB, queries []Query) *gorm.DB {
	for _, q := range queries {
		db = q(db)
	}
	return db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(apiv1.NotFoundError, err.Error())
	}
	return err
}

// conflict marks unique constraint violations so they render as 409.
func conflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Mark(err, apiv1.ConflictError)
	}
	return err
}

// Create creates a new resource. Associations are not written.
func (d *DAO[T]) Create(ctx context.Context, resource *T) error {
	return conflict(d.DB(ctx).Omit(clause.Associations).Create(resource).Error)
}

// Save writes every column of the resource. Associations are not written.
func (d *DAO[T]) Save(ctx context.Context, resource *T) error {
	return conflict(d.DB(ctx).Omit(clause.Associations).Save(resource).Error)
}

// Get retrieves a resource by ID
func (d *DAO[T]) Get(ctx context.Context, id uint, queries ...Query) (*T, error) {
	var resource T
	err := apply(d.DB(ctx), queries).First(&resource, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &resource, nil
}

// First returns the first resource matching the queries.
func (d *DAO[T]) First(ctx context.Context, queries ...Query) (*T, error) {
	var resource T
	err := apply(d.DB(ctx), queries).First(&resource).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &resource, nil
}

// Find returns every resource matching the queries.
func (d *DAO[T]) Find(ctx context.Context, queries ...Query) ([]T, error) {
	resources := make([]T, 0)
	err := apply(d.DB(ctx), queries).Find(&resources).Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// Count returns the number of resources matching the queries.
func (d *DAO[T]) Count(ctx context.Context, queries ...Query) (int64, error) {
	var obj T
	var total int64
	err := apply(d.DB(ctx).Model(&obj), queries).Count(&total).Error
	return total, err
}

// List retrieves resources with pagination and filtering
func (d *DAO[T]) List(ctx context.Context, page, pageSize int, filter map[string]any, queries ...Query) ([]T, int64, error) {
	resources := make([]T, 0)
	var total int64

	var obj T
	query := apply(d.DB(ctx).Model(&obj), queries)
	if len(filter) > 0 {
		query = query.Where(filter)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&resources).Error; err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

// Update applies the non-zero fields of resource to the row with the given ID
func (d *DAO[T]) Update(ctx context.Context, id uint, resource *T) error {
	result := d.DB(ctx).Model(resource).Omit(clause.Associations).Where("id = ?", id).Updates(resource)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(apiv1.NotFoundError, "record not found")
	}
	return nil
}

// Delete deletes a resource by ID
func (d *DAO[T]) Delete(ctx context.Context, id uint) error {
	var resource T
	result := d.DB(ctx).Delete(&resource, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(apiv1.NotFoundError, "record not found")
	}
	return nil
}

// AutoMigrate performs database migration for the resource
func (d *DAO[T]) AutoMigrate() error {
	var obj T
	return d.db.AutoMigrate(&obj)
}

// Transaction executes a function within a database transaction
func (d *DAO[T]) Transaction(ctx context.Context, fc func(tx *gorm.DB) error) error {
	return d.DB(ctx).Transaction(fc)
}
