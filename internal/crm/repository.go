package crm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fortivo-crm/internal/metrics"
	"fortivo-crm/internal/store"
)

// ErrNoFields signals a partial update whose payload selects zero fields.
var ErrNoFields = errors.New("no fields to update")

// StatusCount is one row of the dashboard's per-status aggregation.
type StatusCount struct {
	Status string
	Count  int64
}

// Repository owns all reads and writes of the clients table. Every method
// runs a single self-contained statement (or insert-then-read-back) on a
// connection checked out of the store's pool for the duration of the call.
type Repository struct {
	store *store.Store
}

func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

// List returns the clients matching the query's search and status filters,
// ordered by its validated sort column and direction.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]Client, error) {
	sqlStr, args := q.SelectSQL(r.store.Dialect)
	rows, err := r.store.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	return scanClients(rows)
}

// Get fetches a client by id, returning store.ErrNotFound when absent.
func (r *Repository) Get(ctx context.Context, id int64) (*Client, error) {
	pb := r.store.Dialect.NewParamBuilder()
	sqlStr := "SELECT " + clientColumns + " FROM clients WHERE id = " + pb.Add(id)
	row := r.store.DB.QueryRowContext(ctx, sqlStr, pb.Params()...)

	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get client %d: %w", id, err)
	}
	return c, nil
}

// Create inserts a new record and returns it with the store-assigned id.
// The caller is expected to have normalized and validated the input.
func (r *Repository) Create(ctx context.Context, in ClientInput) (*Client, error) {
	pb := r.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO clients (name, email, phone, status, follow_up_date, notes) VALUES (%s, %s, %s, %s, %s, %s) RETURNING %s",
		pb.Add(in.Name), pb.Add(in.Email), pb.Add(in.Phone), pb.Add(in.Status),
		pb.Add(in.followUpArg()), pb.Add(in.Notes), clientColumns,
	)

	row := r.store.DB.QueryRowContext(ctx, sqlStr, pb.Params()...)
	c, err := scanClient(row)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	metrics.ClientMutationsTotal.WithLabelValues("create").Inc()
	return c, nil
}

// Update overwrites all six mutable columns unconditionally (the HTML form
// path) and returns the stored record.
func (r *Repository) Update(ctx context.Context, id int64, in ClientInput) (*Client, error) {
	pb := r.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"UPDATE clients SET name = %s, email = %s, phone = %s, status = %s, follow_up_date = %s, notes = %s WHERE id = %s",
		pb.Add(in.Name), pb.Add(in.Email), pb.Add(in.Phone), pb.Add(in.Status),
		pb.Add(in.followUpArg()), pb.Add(in.Notes), pb.Add(id),
	)

	affected, err := store.Exec(ctx, r.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, fmt.Errorf("update client %d: %w", id, err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	metrics.ClientMutationsTotal.WithLabelValues("update").Inc()
	return r.Get(ctx, id)
}

// Patch updates only the columns the patch selects (the API path). An empty
// patch returns ErrNoFields without touching the record.
func (r *Repository) Patch(ctx context.Context, id int64, p ClientPatch) (*Client, error) {
	if p.Empty() {
		return nil, ErrNoFields
	}

	cols, args := p.Assignments()
	pb := r.store.Dialect.NewParamBuilder()
	assigns := make([]string, len(cols))
	for i, col := range cols {
		assigns[i] = col + " = " + pb.Add(args[i])
	}
	sqlStr := fmt.Sprintf("UPDATE clients SET %s WHERE id = %s",
		strings.Join(assigns, ", "), pb.Add(id))

	affected, err := store.Exec(ctx, r.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, fmt.Errorf("patch client %d: %w", id, err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	metrics.ClientMutationsTotal.WithLabelValues("patch").Inc()
	return r.Get(ctx, id)
}

// Delete removes a client by id. Deleting an id that does not exist is not
// an error; the operation is idempotent.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	pb := r.store.Dialect.NewParamBuilder()
	sqlStr := "DELETE FROM clients WHERE id = " + pb.Add(id)
	if _, err := store.Exec(ctx, r.store.DB, sqlStr, pb.Params()...); err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	metrics.ClientMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

// StatusCounts groups clients by status, ordered by status for a stable
// chart payload.
func (r *Repository) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.store.DB.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM clients GROUP BY status ORDER BY status")
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// OverdueCount counts clients whose follow-up date is set and strictly
// before today, using the same lexicographic comparison as Client.Overdue.
func (r *Repository) OverdueCount(ctx context.Context, today string) (int64, error) {
	pb := r.store.Dialect.NewParamBuilder()
	sqlStr := "SELECT COUNT(*) FROM clients WHERE follow_up_date IS NOT NULL AND follow_up_date <> '' AND follow_up_date < " + pb.Add(today)

	var n int64
	if err := r.store.DB.QueryRowContext(ctx, sqlStr, pb.Params()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("overdue count: %w", err)
	}
	return n, nil
}

// ExportAll returns every client ordered by name ascending, the fixed order
// of the CSV export.
func (r *Repository) ExportAll(ctx context.Context) ([]Client, error) {
	rows, err := r.store.DB.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("export clients: %w", err)
	}
	defer rows.Close()
	return scanClients(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (*Client, error) {
	var c Client
	var phone, followUp, notes sql.NullString
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.Status, &followUp, &notes); err != nil {
		return nil, err
	}
	c.Phone = phone.String
	c.Notes = notes.String
	if followUp.Valid {
		v := followUp.String
		c.FollowUpDate = &v
	}
	return &c, nil
}

func scanClients(rows *sql.Rows) ([]Client, error) {
	clients := []Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}
