package store

import (
	"fmt"
)

// Dialect abstracts database-specific SQL generation and behavior.
type Dialect interface {
	// Name returns "postgres" or "sqlite".
	Name() string

	// DriverName returns the database/sql driver name ("pgx" or "sqlite").
	DriverName() string

	// Placeholder returns the parameter placeholder for the given 1-based index.
	Placeholder(index int) string

	// NewParamBuilder creates a dialect-aware parameter builder.
	NewParamBuilder() ParamBuilder

	// SchemaSQL returns the DDL for the catalog, config and admin tables.
	SchemaSQL() string

	// InExpr builds a SQL expression for the IN operator.
	// PostgreSQL: "field = ANY($n)" with single array param.
	// SQLite: "field IN (?n, ?n+1, ...)" expanding the slice.
	InExpr(field string, pb ParamBuilder, values []any) string

	// ArrayParam encodes a string slice for storage.
	// PostgreSQL: returns the slice as-is (pgx handles TEXT[]).
	// SQLite: JSON-encodes to string.
	ArrayParam(values []string) any

	// ScanArray decodes a TEXT[] (PostgreSQL) or JSON string (SQLite) into []string.
	ScanArray(src any) ([]string, error)
}

// ParamBuilder accumulates query parameters and generates dialect-specific placeholders.
type ParamBuilder interface {
	// Add appends a value and returns the placeholder string.
	Add(v any) string

	// Params returns all accumulated parameter values.
	Params() []any
}

// NewDialect creates a Dialect for the given driver name ("postgres" or "sqlite").
func NewDialect(driver string) Dialect {
	switch driver {
	case "sqlite":
		return &SQLiteDialect{}
	default:
		return &PostgresDialect{}
	}
}

// --- PostgreSQL ParamBuilder ---

type pgParamBuilder struct {
	params []any
	n      int
}

func (p *pgParamBuilder) Add(v any) string {
	p.n++
	p.params = append(p.params, v)
	return fmt.Sprintf("$%d", p.n)
}

func (p *pgParamBuilder) Params() []any { return p.params }

// --- SQLite ParamBuilder ---

type sqliteParamBuilder struct {
	params []any
	n      int
}

func (p *sqliteParamBuilder) Add(v any) string {
	p.n++
	p.params = append(p.params, v)
	return fmt.Sprintf("?%d", p.n)
}

func (p *sqliteParamBuilder) Params() []any { return p.params }
