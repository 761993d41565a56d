package shared

import (
	"context"
	"errors"
)

// CrudRepository is the base interface for record repositories.
// Implementations return ErrNotFound for missing ids and
// ErrConcurrencyConflict when an update matches no row.
type CrudRepository[T any] interface {
	// FindAll returns every record ordered by id; never nil
	FindAll(ctx context.Context) ([]T, error)
	// FindByID returns a record by id
	FindByID(ctx context.Context, id int64) (*T, error)
	Exister
	// Create inserts the record and assigns its id and initial version
	Create(ctx context.Context, entity *T) error
	// Update replaces the mutable columns of the record, guarded by its version when set
	Update(ctx context.Context, entity *T) error
	// DeleteByID removes the record; dependent rows cascade per the schema
	DeleteByID(ctx context.Context, id int64) error
}

// Exister reports whether a record with the id exists
type Exister interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CheckReference records a field failure on v when id does not name an existing record
func CheckReference(ctx context.Context, v *ValidationError, field string, id int64, repo Exister) error {
	if id <= 0 {
		return nil
	}
	exists, err := repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		v.Add(field, "refers to a record that does not exist")
	}
	return nil
}

// ResolveUpdateError checks once whether a conflicting update lost its row.
// A vanished row becomes ErrNotFound; otherwise the conflict is returned unchanged.
func ResolveUpdateError(ctx context.Context, repo Exister, id int64, err error) error {
	if !errors.Is(err, ErrConcurrencyConflict) {
		return err
	}
	exists, checkErr := repo.ExistsByID(ctx, id)
	if checkErr != nil {
		return checkErr
	}
	if !exists {
		return ErrNotFound
	}
	return err
}
