package store

import (
	"context"
	"fmt"
)

// Bootstrap creates the clients table if it does not exist. It is additive
// only and safe to run on every startup; there is no migration mechanism.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.Dialect.ClientsTableSQL()); err != nil {
		return fmt.Errorf("create clients table: %w", err)
	}
	return nil
}
