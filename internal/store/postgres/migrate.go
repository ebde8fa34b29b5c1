package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

// Migrate applies every embedded *.up.sql file in name order.
// The statements are idempotent so Migrate can run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	const op = "store.postgres.Migrate"

	names, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("%s: read %s: %w", op, name, err)
		}
		if _, err := s.db.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("%s: apply %s: %w", op, name, err)
		}
	}

	return nil
}
