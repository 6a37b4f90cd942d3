package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/reldate"
)

// Tracked is the audit base embedded by stored records.
type Tracked struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CreatedByID *uuid.UUID `db:"created_by_id" json:"created_by_id,omitempty"`
	CreatedOn   time.Time  `db:"created_on" json:"created_on"`
	UpdatedByID *uuid.UUID `db:"updated_by_id" json:"updated_by_id,omitempty"`
	UpdatedOn   *time.Time `db:"updated_on" json:"updated_on,omitempty"`
	Version     int        `db:"version" json:"version"`
}

// IDGenerator produces record identifiers.
type IDGenerator interface {
	NewID() uuid.UUID
}

// UUIDv7 generates time-ordered version 7 UUIDs.
type UUIDv7 struct{}

// NewID returns a new version 7 UUID.
func (UUIDv7) NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewTracked stamps a new record: fresh id, creation time from clock,
// version 1.
func NewTracked(ids IDGenerator, clock reldate.Clock, createdBy *uuid.UUID) Tracked {
	return Tracked{
		ID:          ids.NewID(),
		CreatedByID: createdBy,
		CreatedOn:   clock.Now().UTC(),
		Version:     1,
	}
}

// Touched returns a copy of t marked as updated by updatedBy at clock's
// current time, with the version incremented.
func (t Tracked) Touched(clock reldate.Clock, updatedBy *uuid.UUID) Tracked {
	now := clock.Now().UTC()
	t.UpdatedByID = updatedBy
	t.UpdatedOn = &now
	t.Version++
	return t
}

// Column names of the tracked base.
const (
	ColumnID          = "id"
	ColumnCreatedByID = "created_by_id"
	ColumnCreatedOn   = "created_on"
	ColumnUpdatedByID = "updated_by_id"
	ColumnUpdatedOn   = "updated_on"
	ColumnVersion     = "version"
)

// IDField reads the record id of any type embedding Tracked.
func IDField[T any]() expr.Accessor[T, uuid.UUID] {
	return expr.Field[T, uuid.UUID](ColumnID)
}

// CreatedOnField reads the creation time.
func CreatedOnField[T any]() expr.Accessor[T, *time.Time] {
	return expr.Field[T, *time.Time](ColumnCreatedOn)
}

// UpdatedOnField reads the last update time (null until first update).
func UpdatedOnField[T any]() expr.Accessor[T, *time.Time] {
	return expr.Field[T, *time.Time](ColumnUpdatedOn)
}

// Columns returns the tracked fields keyed by column name, for inserts.
func (t Tracked) Columns() map[string]any {
	return map[string]any{
		ColumnID:          t.ID,
		ColumnCreatedByID: t.CreatedByID,
		ColumnCreatedOn:   t.CreatedOn,
		ColumnUpdatedByID: t.UpdatedByID,
		ColumnUpdatedOn:   t.UpdatedOn,
		ColumnVersion:     t.Version,
	}
}
