package entity

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// ColumnType is the portable column type of a registered column.
type ColumnType string

const (
	TypeUUID      ColumnType = "uuid"
	TypeText      ColumnType = "text"
	TypeTimestamp ColumnType = "timestamp"
	TypeBool      ColumnType = "bool"
	TypeInt       ColumnType = "int"
)

// Column describes one stored column.
type Column struct {
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	Nullable   bool       `json:"nullable,omitempty"`
	PrimaryKey bool       `json:"primary_key,omitempty"`

	// Default is a literal SQL default ("1", "false"); empty for none.
	Default string `json:"default,omitempty"`

	// ConcurrencyToken marks the optimistic locking column.
	ConcurrencyToken bool `json:"concurrency_token,omitempty"`
}

// Config maps a record type to its table.
type Config struct {
	Table   string
	Columns []Column
}

var (
	// ErrDuplicateTable is returned when a table is registered twice.
	ErrDuplicateTable = errors.New("table already registered")

	// ErrInvalidConfig is returned for malformed configurations.
	ErrInvalidConfig = errors.New("invalid entity config")
)

var (
	identifier   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	literalValue = regexp.MustCompile(`^(-?[0-9]+|true|false|'[^']*')$`)
)

// ValidIdentifier reports whether name is usable as a table or column name
// without quoting tricks.
func ValidIdentifier(name string) bool {
	return identifier.MatchString(name)
}

// TrackedColumns returns the columns of the Tracked base.
func TrackedColumns() []Column {
	return []Column{
		{Name: ColumnID, Type: TypeUUID, PrimaryKey: true},
		{Name: ColumnCreatedByID, Type: TypeUUID, Nullable: true},
		{Name: ColumnCreatedOn, Type: TypeTimestamp},
		{Name: ColumnUpdatedByID, Type: TypeUUID, Nullable: true},
		{Name: ColumnUpdatedOn, Type: TypeTimestamp, Nullable: true},
		{Name: ColumnVersion, Type: TypeInt, Default: "1", ConcurrencyToken: true},
	}
}

// NewConfig returns a config for a tracked table with extra columns after
// the tracked ones.
func NewConfig(table string, extra ...Column) Config {
	cols := append(TrackedColumns(), extra...)
	return Config{Table: table, Columns: cols}
}

// Column looks up a column by name.
func (c Config) Column(name string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (c Config) ColumnNames() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// Validate checks identifiers, column uniqueness, types, defaults and that
// exactly one primary key is declared.
func (c Config) Validate() error {
	if !ValidIdentifier(c.Table) {
		return fmt.Errorf("%w: table name %q", ErrInvalidConfig, c.Table)
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", ErrInvalidConfig, c.Table)
	}

	seen := make(map[string]bool, len(c.Columns))
	keys := 0
	for _, col := range c.Columns {
		if !ValidIdentifier(col.Name) {
			return fmt.Errorf("%w: column name %q in %s", ErrInvalidConfig, col.Name, c.Table)
		}
		if seen[col.Name] {
			return fmt.Errorf("%w: duplicate column %s.%s", ErrInvalidConfig, c.Table, col.Name)
		}
		seen[col.Name] = true

		switch col.Type {
		case TypeUUID, TypeText, TypeTimestamp, TypeBool, TypeInt:
		default:
			return fmt.Errorf("%w: column %s.%s has unknown type %q", ErrInvalidConfig, c.Table, col.Name, col.Type)
		}
		if col.Default != "" && !literalValue.MatchString(col.Default) {
			return fmt.Errorf("%w: column %s.%s default %q is not a literal", ErrInvalidConfig, c.Table, col.Name, col.Default)
		}
		if col.PrimaryKey {
			keys++
		}
	}
	if keys != 1 {
		return fmt.Errorf("%w: table %s needs exactly one primary key, has %d", ErrInvalidConfig, c.Table, keys)
	}
	return nil
}

// Registry holds table configurations registered at startup.
//
// Thread-safety: All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]Config)}
}

// Register validates and adds c. Registering a table twice fails with
// ErrDuplicateTable.
func (r *Registry) Register(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[c.Table]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, c.Table)
	}
	r.configs[c.Table] = c
	r.order = append(r.order, c.Table)
	return nil
}

// MustRegister is Register for package initialization; it panics on error.
func (r *Registry) MustRegister(c Config) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Lookup returns the config for table.
func (r *Registry) Lookup(table string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.configs[table]
	return c, ok
}

// All returns every config in registration order.
func (r *Registry) All() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Config, 0, len(r.order))
	for _, table := range r.order {
		out = append(out, r.configs[table])
	}
	return out
}
