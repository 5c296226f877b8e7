package store

// PostgresDialect implements Dialect for PostgreSQL via the pgx stdlib driver.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) NewParamBuilder() ParamBuilder {
	return &postgresParamBuilder{}
}

func (d *PostgresDialect) ClientsTableSQL() string {
	return `
CREATE TABLE IF NOT EXISTS clients (
    id              BIGSERIAL PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL,
    phone           TEXT,
    status          TEXT NOT NULL DEFAULT 'Lead',
    follow_up_date  TEXT,
    notes           TEXT
)`
}

// ContainsExpr uses ILIKE; PostgreSQL's plain LIKE is case-sensitive.
func (d *PostgresDialect) ContainsExpr(pb ParamBuilder, columns []string, term string) string {
	return containsExpr(pb, columns, term, "ILIKE")
}
