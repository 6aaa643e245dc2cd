package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/helixml/curator/domain/repository"
	"gorm.io/gorm"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("entity not found")

// ErrConflict indicates a write violated a uniqueness constraint.
var ErrConflict = errors.New("entity already exists")

// EntityMapper maps between domain values and database models.
type EntityMapper[D any, E any] interface {
	ToDomain(entity E) D
	ToModel(domain D) E
}

// Repository provides generic persistence operations shared by the stores.
type Repository[D any, E any] struct {
	db     Database
	mapper EntityMapper[D, E]
	label  string
}

// NewRepository creates a Repository; label names the entity in errors.
func NewRepository[D any, E any](db Database, mapper EntityMapper[D, E], label string) Repository[D, E] {
	return Repository[D, E]{
		db:     db,
		mapper: mapper,
		label:  label,
	}
}

// DB returns a GORM session bound to ctx.
func (r Repository[D, E]) DB(ctx context.Context) *gorm.DB {
	return r.db.Session(ctx)
}

// Database returns the wrapped database.
func (r Repository[D, E]) Database() Database {
	return r.db
}

// Mapper returns the entity mapper.
func (r Repository[D, E]) Mapper() EntityMapper[D, E] {
	return r.mapper
}

// Find retrieves the entities matching options.
func (r Repository[D, E]) Find(ctx context.Context, options ...repository.Option) ([]D, error) {
	var entities []E
	db := ApplyOptions(r.DB(ctx).Model(new(E)), options...)
	if err := db.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", r.label, err)
	}

	domains := make([]D, len(entities))
	for i, entity := range entities {
		domains[i] = r.mapper.ToDomain(entity)
	}
	return domains, nil
}

// FindOne retrieves the first entity matching options, or ErrNotFound.
func (r Repository[D, E]) FindOne(ctx context.Context, options ...repository.Option) (D, error) {
	var entity E
	var zero D
	db := ApplyOptions(r.DB(ctx), options...)
	if err := db.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, r.label)
		}
		return zero, fmt.Errorf("find one %s: %w", r.label, err)
	}
	return r.mapper.ToDomain(entity), nil
}

// Exists reports whether any entity matches options.
func (r Repository[D, E]) Exists(ctx context.Context, options ...repository.Option) (bool, error) {
	count, err := r.Count(ctx, options...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of entities matching options.
func (r Repository[D, E]) Count(ctx context.Context, options ...repository.Option) (int64, error) {
	var count int64
	db := ApplyConditions(r.DB(ctx).Model(new(E)), options...)
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", r.label, err)
	}
	return count, nil
}

// Create inserts the domain value. Unique violations are reported as ErrConflict.
func (r Repository[D, E]) Create(ctx context.Context, d D) (D, error) {
	model := r.mapper.ToModel(d)
	if err := r.DB(ctx).Create(&model).Error; err != nil {
		var zero D
		return zero, r.wrapWrite("create", err)
	}
	return r.mapper.ToDomain(model), nil
}

// Upsert inserts the domain value or replaces the row with the same primary key.
func (r Repository[D, E]) Upsert(ctx context.Context, d D) (D, error) {
	model := r.mapper.ToModel(d)
	if err := r.DB(ctx).Save(&model).Error; err != nil {
		var zero D
		return zero, r.wrapWrite("save", err)
	}
	return r.mapper.ToDomain(model), nil
}

// Remove deletes the row backing the domain value.
func (r Repository[D, E]) Remove(ctx context.Context, d D) error {
	model := r.mapper.ToModel(d)
	if err := r.DB(ctx).Delete(&model).Error; err != nil {
		return fmt.Errorf("delete %s: %w", r.label, err)
	}
	return nil
}

// DeleteBy removes the entities matching options.
func (r Repository[D, E]) DeleteBy(ctx context.Context, options ...repository.Option) error {
	db := ApplyConditions(r.DB(ctx), options...)
	if err := db.Delete(new(E)).Error; err != nil {
		return fmt.Errorf("delete %s: %w", r.label, err)
	}
	return nil
}

func (r Repository[D, E]) wrapWrite(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %s: %w", op, r.label, ErrConflict)
	}
	return fmt.Errorf("%s %s: %w", op, r.label, err)
}
