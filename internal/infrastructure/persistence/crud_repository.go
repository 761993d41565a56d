package persistence

import (
	"context"
	"errors"

	"github.com/community/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// recordPtr constrains P to be *T implementing shared.Record
type recordPtr[T any] interface {
	*T
	shared.Record
}

// crudRepository implements shared.CrudRepository for any record type.
// Entity repositories embed it and add their lookup queries.
type crudRepository[T any, P recordPtr[T]] struct {
	db *gorm.DB
}

func newCrudRepository[T any, P recordPtr[T]](db *gorm.DB) crudRepository[T, P] {
	return crudRepository[T, P]{db: db}
}

// FindAll returns every record ordered by id
func (r crudRepository[T, P]) FindAll(ctx context.Context) ([]T, error) {
	return r.findWhere(ctx, "", nil)
}

// findWhere returns the records matching column = value, or all records when column is empty
func (r crudRepository[T, P]) findWhere(ctx context.Context, column string, value any) ([]T, error) {
	items := make([]T, 0)
	q := r.db.WithContext(ctx).Model(new(T))
	if column != "" {
		q = q.Where(column+" = ?", value)
	}
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID finds a record by its ID
func (r crudRepository[T, P]) FindByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// ExistsByID reports whether a record with the ID exists
func (r crudRepository[T, P]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the record; the database assigns its ID
func (r crudRepository[T, P]) Create(ctx context.Context, entity *T) error {
	p := P(entity)
	if p.GetVersion() <= 0 {
		p.SetVersion(1)
	}
	return translateWriteError(r.db.WithContext(ctx).Create(entity).Error)
}

// Update replaces the mutable columns and bumps the version. The version
// predicate applies only when the caller supplied one. No matching row is
// reported as shared.ErrConcurrencyConflict; callers decide whether the row vanished.
func (r crudRepository[T, P]) Update(ctx context.Context, entity *T) error {
	p := P(entity)
	columns := p.MutableColumns()
	columns["version"] = gorm.Expr("version + 1")

	q := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", p.GetID())
	if v := p.GetVersion(); v > 0 {
		q = q.Where("version = ?", v)
	}

	result := q.Updates(columns)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	if v := p.GetVersion(); v > 0 {
		p.SetVersion(v + 1)
	}
	return nil
}

// DeleteByID deletes a record by ID; dependent rows cascade in the database
func (r crudRepository[T, P]) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// translateWriteError maps constraint violations surfaced by gorm's
// TranslateError to domain errors.
func translateWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewValidationError("reference", "refers to a record that does not exist")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
