package store

// SQLiteDialect implements Dialect for SQLite via modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) NewParamBuilder() ParamBuilder {
	return &sqliteParamBuilder{}
}

func (d *SQLiteDialect) ClientsTableSQL() string {
	return `
CREATE TABLE IF NOT EXISTS clients (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL,
    phone           TEXT,
    status          TEXT NOT NULL DEFAULT 'Lead',
    follow_up_date  TEXT,
    notes           TEXT
)`
}

// ContainsExpr relies on SQLite's LIKE being case-insensitive for ASCII.
func (d *SQLiteDialect) ContainsExpr(pb ParamBuilder, columns []string, term string) string {
	return containsExpr(pb, columns, term, "LIKE")
}
