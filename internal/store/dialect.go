package store

import (
	"fmt"
	"strings"
)

// Dialect abstracts the SQL differences between the supported engines.
type Dialect interface {
	// Name returns "sqlite" or "postgres".
	Name() string

	// DriverName returns the database/sql driver name ("sqlite" or "pgx").
	DriverName() string

	// NewParamBuilder creates a dialect-aware parameter builder.
	NewParamBuilder() ParamBuilder

	// ClientsTableSQL returns the DDL creating the clients table if absent.
	ClientsTableSQL() string

	// ContainsExpr builds a case-insensitive substring predicate matching
	// term against any of the given columns. The term is bound as a
	// parameter, never interpolated.
	ContainsExpr(pb ParamBuilder, columns []string, term string) string
}

// ParamBuilder accumulates bound parameters and hands out the matching
// placeholder text for the target dialect.
type ParamBuilder interface {
	// Add appends a value and returns its placeholder.
	Add(v any) string
	// Params returns the accumulated values in placeholder order.
	Params() []any
}

// NewDialect returns the dialect for the given driver name, defaulting to
// sqlite for unknown values.
func NewDialect(driver string) Dialect {
	if driver == "postgres" {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}

type sqliteParamBuilder struct {
	params []any
}

func (p *sqliteParamBuilder) Add(v any) string {
	p.params = append(p.params, v)
	return fmt.Sprintf("?%d", len(p.params))
}

func (p *sqliteParamBuilder) Params() []any { return p.params }

type postgresParamBuilder struct {
	params []any
}

func (p *postgresParamBuilder) Add(v any) string {
	p.params = append(p.params, v)
	return fmt.Sprintf("$%d", len(p.params))
}

func (p *postgresParamBuilder) Params() []any { return p.params }

func containsExpr(pb ParamBuilder, columns []string, term, likeOp string) string {
	pattern := "%" + term + "%"
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s %s %s", col, likeOp, pb.Add(pattern))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
